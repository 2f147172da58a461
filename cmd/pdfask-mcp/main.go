// Package main provides the MCP server entry point for pdfask.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bull/pdfask/internal/answer"
	"github.com/bull/pdfask/internal/chunker"
	"github.com/bull/pdfask/internal/config"
	"github.com/bull/pdfask/internal/embedding"
	"github.com/bull/pdfask/internal/extract"
	mcpserver "github.com/bull/pdfask/internal/mcp"
	"github.com/bull/pdfask/internal/pipeline"
	"github.com/bull/pdfask/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	port := config.GetEnv("PORT", "8080")

	store, err := storage.NewQdrantStorage(cfg.QdrantHost, cfg.QdrantPort, cfg.Collection)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	// Ensure collection exists so the tools work before the first indexing run
	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	client, err := embedding.NewClient(cfg.OpenAIKey)
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(client, 0) // Use default batch size

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("invalid chunking config: %v", err)
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

	server := mcpserver.NewServer(&mcpserver.Config{
		Pipeline: p,
		Storage:  store,
	})

	// HTTP endpoints: landing page, health check and the MCP transport
	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store, cfg.Collection))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	// Check if running in server mode (HTTP) or stdio mode (local development)
	serverMode := config.GetEnv("SERVER_MODE", "false") == "true"

	if serverMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP server over stdin/stdout for local clients
		// Also start HTTP health endpoint in background for local testing
		go func() {
			addr := "0.0.0.0:" + port
			log.Printf("Starting health server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting pdfask MCP server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}
