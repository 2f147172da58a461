// Package storage persists embedded chunks in Qdrant and serves
// nearest-neighbor queries over a single collection.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Payload field names for stored chunks.
const (
	fieldChunk      = "chunk"
	fieldChunkIndex = "chunk_index"
)

// QdrantStorage wraps the Qdrant client with connection management and
// health checks, bound to one collection name for the process lifetime.
type QdrantStorage struct {
	client     *qdrant.Client
	collection string
	host       string
	port       int
}

// NewQdrantStorage creates a new Qdrant client with health validation.
// It performs health check with retry on startup and fails fast if Qdrant is unreachable.
func NewQdrantStorage(host string, port int, collection string) (*QdrantStorage, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	// Create Qdrant client using gRPC
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	storage := &QdrantStorage{
		client:     client,
		collection: collection,
		host:       host,
		port:       port,
	}

	// Perform health check with exponential backoff retry
	ctx := context.Background()
	err = storage.healthCheckWithRetry(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return storage, nil
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantStorage) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		return s.Health(ctx)
	}

	return backoff.Retry(operation, exponentialBackoff)
}

// Health performs a single health check against Qdrant.
// Returns nil if Qdrant is healthy, error otherwise.
func (s *QdrantStorage) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}

	return nil
}

// Collection returns the collection name this storage is bound to.
func (s *QdrantStorage) Collection() string {
	return s.collection
}

// Close closes the Qdrant client connection.
func (s *QdrantStorage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// EnsureCollection creates the chunk collection if it does not exist yet.
// Idempotent; existing data is left untouched.
func (s *QdrantStorage) EnsureCollection(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.createCollection(ctx)
}

// Index replaces the collection contents with the given chunks and returns
// the number of chunks written. Destructive: any existing collection under
// the same name is deleted first, along with all chunks it held. The
// delete-and-recreate step is idempotent, so a retried run converges on the
// same end state. Writes happen in batches of UpsertBatchSize; the first
// failed batch aborts the run and batches already written stay committed.
func (s *QdrantStorage) Index(ctx context.Context, chunks []*Chunk) (int, error) {
	// Validate embedding dimensions before touching the collection
	for i, chunk := range chunks {
		if len(chunk.Embedding) != VectorDimension {
			return 0, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(chunk.Embedding), VectorDimension)
		}
	}

	if err := s.recreateCollection(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIndexingFailed, err)
	}

	written := 0
	for i := 0; i < len(chunks); i += UpsertBatchSize {
		end := i + UpsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		points := buildPoints(chunks[i:end])
		if err := s.upsertWithRetry(ctx, points); err != nil {
			return written, fmt.Errorf("%w: batch %d-%d: %v", ErrIndexingFailed, i, end, err)
		}
		written += end - i
	}

	return written, nil
}

// collectionExists reports whether the configured collection is present.
func (s *QdrantStorage) collectionExists(ctx context.Context) (bool, error) {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range collections {
		if name == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// createCollection creates the collection with the chunk schema: 1536-dim
// cosine vectors and payload fields "chunk" (text) and "chunk_index"
// (integer, payload-indexed).
func (s *QdrantStorage) createCollection(ctx context.Context) error {
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      fieldChunkIndex,
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
	})
	if err != nil {
		return fmt.Errorf("failed to create index for field %s: %w", fieldChunkIndex, err)
	}

	return nil
}

// recreateCollection drops any existing collection under the configured
// name and creates a fresh, empty one.
func (s *QdrantStorage) recreateCollection(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
	}
	return s.createCollection(ctx)
}

// buildPoints converts chunks to Qdrant points with fresh UUID ids.
func buildPoints(chunks []*Chunk) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuid.NewString()),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				fieldChunk:      chunk.Text,
				fieldChunkIndex: chunk.ChunkIndex,
			}),
		}
	}
	return points
}

// upsertWithRetry performs upsert operation with exponential backoff retry.
func (s *QdrantStorage) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		// Wait makes the write visible before the call returns, so the
		// aggregate count check after indexing sees every batch.
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		return err
	}

	return backoff.Retry(operation, exponentialBackoff)
}

// Search returns up to topK nearest chunks for the query vector, as
// Candidates in the order the store returned them. Searching an existing
// but empty collection yields zero candidates and no error.
func (s *QdrantStorage) Search(ctx context.Context, embedding []float32, topK int) ([]Candidate, error) {
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	return candidatesFromPoints(results)
}

// candidatesFromPoints validates raw hits at the store boundary. Every hit
// must carry the chunk text in its payload; a hit without it aborts the
// whole result set. The score field is optional on the wire and decodes to
// 0 when the store omits it.
func candidatesFromPoints(points []*qdrant.ScoredPoint) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(points))
	for i, point := range points {
		value, ok := point.Payload[fieldChunk]
		if !ok || value.GetStringValue() == "" {
			return nil, fmt.Errorf("%w: result %d missing key %q", ErrMalformedHit, i, fieldChunk)
		}
		candidates = append(candidates, Candidate{
			Text:  value.GetStringValue(),
			Score: float64(point.GetScore()),
		})
	}
	return candidates, nil
}

// Count returns the collection's aggregate point count. Used to verify an
// indexing run against the number of chunks written.
func (s *QdrantStorage) Count(ctx context.Context) (uint64, error) {
	collection, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection: %w", err)
	}
	return collection.GetPointsCount(), nil
}
