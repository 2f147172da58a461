// Package answer renders the question-answering prompt and calls the chat
// model for the final response.
package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// Model is the chat model used for answer generation.
const Model = openai.ChatModelGPT3_5Turbo

// promptTemplate embeds the query and the retrieved context verbatim. The
// escape hatch for insufficient context lives in the instruction itself:
// the model is invoked even when the context is empty, and the prompt tells
// it to say it does not know.
const promptTemplate = `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Use three sentences maximum and keep the answer concise.
Question: %s
Context: %s
Answer:`

// ErrGenerationFailed indicates the language model call failed.
var ErrGenerationFailed = errors.New("answer generation failed")

// Answerer produces answers with deterministic sampling (temperature 0).
// It performs no retry; failures propagate to the caller.
type Answerer struct {
	client *openai.Client
}

// NewAnswerer creates an Answerer on top of a configured OpenAI client.
func NewAnswerer(client *openai.Client) *Answerer {
	return &Answerer{client: client}
}

// Answer sends the rendered prompt to the chat model and returns the
// generated text unchanged.
func (a *Answerer) Answer(ctx context.Context, query, contextText string) (string, error) {
	prompt := renderPrompt(query, contextText)

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       Model,
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", wrapGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrGenerationFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

// renderPrompt builds the fixed instruction template around the query and
// context.
func renderPrompt(query, contextText string) string {
	return fmt.Sprintf(promptTemplate, query, contextText)
}

// wrapGenerationError tags a failure with ErrGenerationFailed, surfacing
// the HTTP status and service message when the error came from the API.
func wrapGenerationError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, apiErr.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}
