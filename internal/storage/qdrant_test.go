//go:build integration

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStorage creates a storage instance bound to a unique collection.
// Skips the test if Qdrant is not running; drops the collection afterwards.
func setupTestStorage(t *testing.T) *QdrantStorage {
	collection := "test-articles-" + uuid.New().String()
	storage, err := NewQdrantStorage("localhost", 6334, collection)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}

	t.Cleanup(func() {
		_ = storage.client.DeleteCollection(context.Background(), collection)
		storage.Close()
	})

	return storage
}

// testEmbedding returns a 1536-dim vector with a distinguishing spike so
// different chunks stay separable under cosine similarity.
func testEmbedding(spike int) []float32 {
	embedding := make([]float32, VectorDimension)
	for i := range embedding {
		embedding[i] = 0.01
	}
	embedding[spike%VectorDimension] = 1.0
	return embedding
}

func TestIndexAndSearchRoundTrip(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	chunks := []*Chunk{
		{ChunkIndex: 0, Text: "chunk zero content", Embedding: testEmbedding(0)},
		{ChunkIndex: 1, Text: "chunk one content", Embedding: testEmbedding(100)},
		{ChunkIndex: 2, Text: "chunk two content", Embedding: testEmbedding(200)},
	}

	written, err := storage.Index(ctx, chunks)
	require.NoError(t, err, "Failed to index chunks")
	assert.Equal(t, 3, written)

	// Aggregate count matches the written count
	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	// Query with chunk one's own vector: it must come back as the top hit
	candidates, err := storage.Search(ctx, testEmbedding(100), 5)
	require.NoError(t, err, "Failed to search chunks")
	require.NotEmpty(t, candidates)

	assert.Equal(t, "chunk one content", candidates[0].Text)
	assert.Greater(t, candidates[0].Score, 0.9, "identical vector should score near 1.0")
}

func TestIndexFullReplace(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	first := []*Chunk{
		{ChunkIndex: 0, Text: "first run chunk a", Embedding: testEmbedding(0)},
		{ChunkIndex: 1, Text: "first run chunk b", Embedding: testEmbedding(50)},
		{ChunkIndex: 2, Text: "first run chunk c", Embedding: testEmbedding(100)},
	}
	written, err := storage.Index(ctx, first)
	require.NoError(t, err)
	require.Equal(t, 3, written)

	// Re-indexing under the same name must drop the first run entirely
	second := []*Chunk{
		{ChunkIndex: 0, Text: "second run chunk a", Embedding: testEmbedding(300)},
		{ChunkIndex: 1, Text: "second run chunk b", Embedding: testEmbedding(400)},
	}
	written, err = storage.Index(ctx, second)
	require.NoError(t, err)
	require.Equal(t, 2, written)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count, "count after re-index must equal the second run only")

	candidates, err := storage.Search(ctx, testEmbedding(300), 5)
	require.NoError(t, err)

	texts := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		texts = append(texts, candidate.Text)
	}
	assert.ElementsMatch(t, []string{"second run chunk a", "second run chunk b"}, texts)
}

func TestSearchEmptyCollection(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	// Collection exists but holds nothing
	require.NoError(t, storage.EnsureCollection(ctx))

	candidates, err := storage.Search(ctx, testEmbedding(0), 5)
	require.NoError(t, err, "empty collection must not be an error")
	assert.Empty(t, candidates)
}

func TestIndexDimensionMismatch(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	chunks := []*Chunk{
		{ChunkIndex: 0, Text: "bad chunk", Embedding: []float32{0.1, 0.2, 0.3}},
	}

	written, err := storage.Index(ctx, chunks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch), "expected ErrDimensionMismatch, got %v", err)
	assert.Zero(t, written)
}

func TestIndexZeroChunks(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	// Zero chunks still recreates the collection, leaving it empty
	written, err := storage.Index(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, written)

	count, err := storage.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
