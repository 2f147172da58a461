package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/pdfask/internal/pipeline"
	"github.com/bull/pdfask/internal/storage"
)

// Asker runs the query pipeline. pipeline.Pipeline implements this.
type Asker interface {
	Ask(ctx context.Context, query string) (*pipeline.AskResult, error)
	Retrieve(ctx context.Context, query string, topK int) ([]storage.Candidate, error)
}

// StatusStore reports collection state. storage.QdrantStorage implements this.
type StatusStore interface {
	Collection() string
	Count(ctx context.Context) (uint64, error)
}

// makeAskHandler creates the ask_question tool handler: embed the query,
// retrieve the nearest chunks, re-rank and generate the answer.
func makeAskHandler(p Asker) func(
	context.Context, *mcp.CallToolRequest, AskQuestionInput,
) (*mcp.CallToolResult, AskQuestionOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskQuestionInput) (
		*mcp.CallToolResult, AskQuestionOutput, error,
	) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, AskQuestionOutput{}, errors.New("query must not be empty")
		}

		result, err := p.Ask(ctx, input.Query)
		if err != nil {
			return nil, AskQuestionOutput{}, fmt.Errorf("ask failed: %w", err)
		}

		return nil, AskQuestionOutput{
			Answer:  result.Answer,
			Sources: chunkResults(result.Candidates),
		}, nil
	}
}

// makeSearchHandler creates the search_chunks tool handler. Returns raw
// scored chunks without invoking the language model.
func makeSearchHandler(p Asker) func(
	context.Context, *mcp.CallToolRequest, SearchChunksInput,
) (*mcp.CallToolResult, SearchChunksOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchChunksInput) (
		*mcp.CallToolResult, SearchChunksOutput, error,
	) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, SearchChunksOutput{}, errors.New("query must not be empty")
		}

		candidates, err := p.Retrieve(ctx, input.Query, input.TopK)
		if err != nil {
			return nil, SearchChunksOutput{}, fmt.Errorf("search failed: %w", err)
		}

		if len(candidates) == 0 {
			return nil, SearchChunksOutput{
				Results: []ChunkResult{},
				Message: "No matching chunks found. The collection may be empty.",
			}, nil
		}

		return nil, SearchChunksOutput{Results: chunkResults(candidates)}, nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(store StatusStore) func(
	context.Context, *mcp.CallToolRequest, IndexStatusInput,
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IndexStatusInput) (
		*mcp.CallToolResult, IndexStatusOutput, error,
	) {
		count, err := store.Count(ctx)
		if err != nil {
			return nil, IndexStatusOutput{}, fmt.Errorf("qdrant_error: failed to count points: %w", err)
		}

		return nil, IndexStatusOutput{
			Collection: store.Collection(),
			Points:     count,
			Ready:      count > 0,
		}, nil
	}
}

// chunkResults converts candidates to tool output entries. The slice is
// never nil so the JSON field always marshals as an array.
func chunkResults(candidates []storage.Candidate) []ChunkResult {
	results := make([]ChunkResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, ChunkResult{
			Text:  candidate.Text,
			Score: candidate.Score,
		})
	}
	return results
}
