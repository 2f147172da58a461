package storage

// Chunk represents one embedded segment of a source document, ready for
// indexing. Chunks are immutable once embedded and are destroyed only when
// their collection is dropped.
type Chunk struct {
	ChunkIndex int       // Position in the flattened sequence across all pages (0, 1, 2...)
	Text       string    // Chunk text content, non-empty
	Embedding  []float32 // 1536-dim vector (text-embedding-3-small)
}

// Candidate is a transient search hit: the stored chunk text plus the
// store's similarity score in [0,1], where 1.0 is most similar. Hits that
// arrive without a score carry 0. Candidates are never persisted.
type Candidate struct {
	Text  string
	Score float64
}

// DefaultCollection is the collection indexed and queried when no name is
// configured.
const DefaultCollection = "articles"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536

// UpsertBatchSize is the number of points written per upsert request.
const UpsertBatchSize = 100
