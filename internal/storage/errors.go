package storage

import "errors"

var (
	ErrQdrantUnreachable = errors.New("qdrant server unreachable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrIndexingFailed    = errors.New("chunk indexing failed")
	ErrMalformedHit      = errors.New("malformed search hit")
)
