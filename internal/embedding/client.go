package embedding

import (
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrMissingCredential indicates no API key was configured for the OpenAI
// services. Requests are never sent unauthenticated.
var ErrMissingCredential = errors.New("missing OpenAI API key")

// Client wraps the OpenAI client shared by embedding and answer generation.
type Client struct {
	client *openai.Client
}

// NewClient creates an OpenAI client from an explicit API key.
// An empty key is a configuration error, not a late request failure.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable not set", ErrMissingCredential)
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &Client{client: &client}, nil
}

// Client returns the underlying OpenAI client for use in other packages
// (e.g., answer generation).
func (c *Client) Client() *openai.Client {
	return c.client
}
