// Package main provides the pdfask CLI: index a document into Qdrant and
// answer questions about it interactively.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/pdfask/internal/answer"
	"github.com/bull/pdfask/internal/chunker"
	"github.com/bull/pdfask/internal/config"
	"github.com/bull/pdfask/internal/embedding"
	"github.com/bull/pdfask/internal/extract"
	"github.com/bull/pdfask/internal/pipeline"
	"github.com/bull/pdfask/internal/rerank"
	"github.com/bull/pdfask/internal/storage"
)

var (
	pdfFile      string
	chunkSize    int
	chunkOverlap int
	topK         int
	topP         int
	collection   string
)

var rootCmd = &cobra.Command{
	Use:   "pdfask",
	Short: "Ask questions about a document from your terminal",
	Long: `pdfask indexes a document into Qdrant and answers questions about it
using retrieval-augmented generation.

The file is extracted, chunked, embedded with OpenAI and stored in a
Qdrant collection, replacing whatever the collection held before. An
interactive loop then answers queries against the indexed chunks until
'q' is entered.

Environment variables:
  QDRANT_HOST        Qdrant hostname (default: localhost)
  QDRANT_PORT        Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION  collection name (default: articles)
  OPENAI_API_KEY     OpenAI API key (required)`,
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&pdfFile, "pdf_file", "", "path to the document to index (required)")
	flags.IntVar(&chunkSize, "chunk_size", chunker.DefaultChunkSize, "chunk size in characters")
	flags.IntVar(&chunkOverlap, "chunk_overlap", chunker.DefaultChunkOverlap, "overlap between consecutive chunks")
	flags.IntVar(&topK, "top_k", config.DefaultTopK, "number of chunks retrieved per query")
	flags.IntVar(&topP, "top_p", rerank.DefaultTopP, "number of retrieved chunks kept as answer context")
	flags.StringVar(&collection, "collection", storage.DefaultCollection, "Qdrant collection name")
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if pdfFile == "" {
		return fmt.Errorf("--pdf_file is required")
	}

	cfg := config.FromEnv()
	cfg.ChunkSize = chunkSize
	cfg.ChunkOverlap = chunkOverlap
	cfg.TopK = topK
	cfg.TopP = topP
	if cmd.Flags().Changed("collection") {
		cfg.Collection = collection
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(pdfFile), ".pdf") {
		if err := extract.CheckAvailable(); err != nil {
			fmt.Fprintln(os.Stderr, extract.InstallInstructions())
			return err
		}
	}

	ctx := context.Background()

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.Collection)
	if err != nil {
		return fmt.Errorf("Failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	client, err := embedding.NewClient(cfg.OpenAIKey)
	if err != nil {
		return fmt.Errorf("Failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, 0) // Use default batch size

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	p := pipeline.New(&pipeline.Config{
		Extractor: extract.New(),
		Splitter:  splitter,
		Embedder:  embedder,
		Store:     store,
		Answerer:  answer.NewAnswerer(client.Client()),
		TopK:      cfg.TopK,
		TopP:      cfg.TopP,
	})

	fmt.Printf("Indexing %s into collection %q...\n", pdfFile, cfg.Collection)
	result, err := p.IndexFile(ctx, pdfFile)
	if err != nil {
		return fmt.Errorf("Indexing failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Indexing complete!")
	fmt.Printf("  Source: %s\n", result.Source)
	fmt.Printf("  Pages: %d\n", result.Pages)
	fmt.Printf("  Chunks: %d\n", result.Chunks)
	fmt.Printf("  Stored points: %d\n", result.VerifiedCount)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Println()

	return queryLoop(ctx, p, os.Stdin, os.Stdout)
}

type asker interface {
	Ask(ctx context.Context, query string) (*pipeline.AskResult, error)
}

// queryLoop reads queries until EOF or the literal input "q". A failed
// query is printed and the loop continues with the next one.
func queryLoop(ctx context.Context, p asker, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter your query (or 'q' to quit): ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "q" {
			fmt.Fprintln(out, "Exiting...")
			break
		}
		if query == "" {
			continue
		}

		result, err := p.Ask(ctx, query)
		if err != nil {
			fmt.Fprintf(out, "Query failed: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", result.Answer)
	}
	return scanner.Err()
}
