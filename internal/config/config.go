// Package config carries the runtime configuration assembled once in main
// and injected into every component. Nothing outside main reads environment
// variables at call time.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/bull/pdfask/internal/chunker"
	"github.com/bull/pdfask/internal/rerank"
	"github.com/bull/pdfask/internal/storage"
)

const (
	DefaultQdrantHost = "localhost"
	DefaultQdrantPort = 6334
	DefaultTopK       = 5
)

// Config is the full runtime configuration for the pipeline and servers.
type Config struct {
	QdrantHost   string
	QdrantPort   int
	OpenAIKey    string
	Collection   string
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	TopP         int
}

// FromEnv builds a Config from environment variables, applying defaults for
// everything but the OpenAI key. Flag values layered on top by main override
// these.
//
// Environment variables:
//
//	QDRANT_HOST        Qdrant hostname (default: localhost)
//	QDRANT_PORT        Qdrant gRPC port (default: 6334)
//	QDRANT_COLLECTION  collection name (default: articles)
//	OPENAI_API_KEY     OpenAI API key (required)
func FromEnv() *Config {
	return &Config{
		QdrantHost:   GetEnv("QDRANT_HOST", DefaultQdrantHost),
		QdrantPort:   GetEnvInt("QDRANT_PORT", DefaultQdrantPort),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		Collection:   GetEnv("QDRANT_COLLECTION", storage.DefaultCollection),
		ChunkSize:    chunker.DefaultChunkSize,
		ChunkOverlap: chunker.DefaultChunkOverlap,
		TopK:         DefaultTopK,
		TopP:         rerank.DefaultTopP,
	}
}

// Validate checks the chunking and retrieval parameters. Chunk bounds are
// checked by the chunker itself so the error taxonomy stays in one place.
func (c *Config) Validate() error {
	if _, err := chunker.New(c.ChunkSize, c.ChunkOverlap); err != nil {
		return err
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.TopP <= 0 {
		return fmt.Errorf("top_p must be positive, got %d", c.TopP)
	}
	if c.QdrantPort <= 0 {
		return fmt.Errorf("qdrant port must be positive, got %d", c.QdrantPort)
	}
	if c.Collection == "" {
		return errors.New("collection name must not be empty")
	}
	return nil
}

// GetEnv returns the value of key, or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvInt returns the integer value of key, or defaultValue when unset
// or unparsable.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
