// Package pipeline orchestrates the two flows of the system: indexing a
// source file into the vector store and answering queries against it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bull/pdfask/internal/chunker"
	"github.com/bull/pdfask/internal/extract"
	"github.com/bull/pdfask/internal/rerank"
	"github.com/bull/pdfask/internal/storage"
)

// IndexResult contains statistics about one indexing run.
type IndexResult struct {
	Source        string
	Pages         int
	Chunks        int
	VerifiedCount uint64
	Duration      time.Duration
}

// AskResult carries one answered query with its retrieval context.
type AskResult struct {
	Query      string
	Answer     string
	Context    string
	Candidates []storage.Candidate
	Duration   time.Duration
}

// Extractor converts a source file into plain text pages.
// extract.Extractor implements this.
type Extractor interface {
	Extract(ctx context.Context, path string) (*extract.Document, error)
}

// Embedder turns text into vectors. embedding.Embedder implements this.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store persists embedded chunks and serves nearest-neighbor queries.
// storage.QdrantStorage implements this.
type Store interface {
	Index(ctx context.Context, chunks []*storage.Chunk) (int, error)
	Search(ctx context.Context, embedding []float32, topK int) ([]storage.Candidate, error)
	Count(ctx context.Context) (uint64, error)
}

// Answerer produces the final answer for a query and its retrieved context.
// answer.Answerer implements this.
type Answerer interface {
	Answer(ctx context.Context, query, contextText string) (string, error)
}

// Config holds the components and parameters for a Pipeline.
type Config struct {
	Extractor Extractor
	Splitter  *chunker.Splitter
	Embedder  Embedder
	Store     Store
	Answerer  Answerer
	TopK      int
	TopP      int
	Logger    *slog.Logger
}

// Pipeline orchestrates the full flow from source file to answered query.
type Pipeline struct {
	extractor Extractor
	splitter  *chunker.Splitter
	embedder  Embedder
	store     Store
	answerer  Answerer
	topK      int
	topP      int
	logger    *slog.Logger
}

// New creates a Pipeline from the given components. Parameters are taken
// as-is; main validates them before construction.
func New(cfg *Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: cfg.Extractor,
		splitter:  cfg.Splitter,
		embedder:  cfg.Embedder,
		store:     cfg.Store,
		answerer:  cfg.Answerer,
		topK:      cfg.TopK,
		topP:      cfg.TopP,
		logger:    logger,
	}
}

// IndexFile extracts, chunks, embeds and indexes one source file, replacing
// the collection contents. The returned result carries the point count read
// back from the store after the run.
func (p *Pipeline) IndexFile(ctx context.Context, path string) (*IndexResult, error) {
	start := time.Now()

	doc, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	p.logger.Info("Extracted document", "source", doc.Name, "pages", len(doc.Pages))

	texts := p.chunkPages(doc.Pages)
	if len(texts) == 0 {
		return nil, fmt.Errorf("no text extracted from %s", path)
	}
	p.logger.Debug("Chunked document", "source", doc.Name, "chunks", len(texts))

	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	chunks := make([]*storage.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &storage.Chunk{
			ChunkIndex: i,
			Text:       text,
			Embedding:  embeddings[i],
		}
	}

	written, err := p.store.Index(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}

	count, err := p.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify count: %w", err)
	}
	if count != uint64(written) {
		p.logger.Warn("Point count does not match written chunks", "written", written, "count", count)
	}

	result := &IndexResult{
		Source:        doc.Name,
		Pages:         len(doc.Pages),
		Chunks:        written,
		VerifiedCount: count,
		Duration:      time.Since(start),
	}
	p.logger.Info("Indexing complete",
		"source", doc.Name,
		"chunks", result.Chunks,
		"count", result.VerifiedCount,
		"duration", result.Duration,
	)
	return result, nil
}

// chunkPages splits every page and flattens the results in page order, so
// chunk indexes stay unique across the whole document.
func (p *Pipeline) chunkPages(pages []string) []string {
	var texts []string
	for _, page := range pages {
		texts = append(texts, p.splitter.Split(page)...)
	}
	return texts
}

// Ask answers one query against the indexed collection: embed the query,
// retrieve the nearest chunks, build the re-ranked context and generate the
// answer. The model is invoked even when retrieval finds nothing; the prompt
// tells it to admit when the context is insufficient.
func (p *Pipeline) Ask(ctx context.Context, query string) (*AskResult, error) {
	start := time.Now()

	candidates, err := p.Retrieve(ctx, query, p.topK)
	if err != nil {
		return nil, err
	}

	contextText := rerank.Context(candidates, p.topP)

	answerText, err := p.answerer.Answer(ctx, query, contextText)
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}

	return &AskResult{
		Query:      query,
		Answer:     answerText,
		Context:    contextText,
		Candidates: candidates,
		Duration:   time.Since(start),
	}, nil
}

// Retrieve returns the raw scored candidates for a query without invoking
// the language model. topK values below 1 fall back to the configured one.
func (p *Pipeline) Retrieve(ctx context.Context, query string, topK int) ([]storage.Candidate, error) {
	if topK <= 0 {
		topK = p.topK
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := p.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	p.logger.Debug("Retrieved candidates", "query", query, "count", len(candidates))

	return candidates, nil
}
