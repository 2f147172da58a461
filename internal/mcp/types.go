// Package mcp exposes the query pipeline as Model Context Protocol tools.
package mcp

// AskQuestionInput defines the input parameters for the ask_question tool.
type AskQuestionInput struct {
	// Query is the question to answer from the indexed document.
	Query string `json:"query" jsonschema:"required,description=The question to answer from the indexed document"`
}

// AskQuestionOutput contains the generated answer and its supporting chunks.
type AskQuestionOutput struct {
	// Answer is the model-generated answer text.
	Answer string `json:"answer"`
	// Sources is the retrieved chunks the answer was grounded on.
	Sources []ChunkResult `json:"sources"`
}

// ChunkResult is one retrieved chunk with its similarity score.
type ChunkResult struct {
	// Text is the chunk content.
	Text string `json:"text"`
	// Score is the similarity score reported by the vector store.
	Score float64 `json:"score"`
}

// SearchChunksInput defines the input parameters for the search_chunks tool.
type SearchChunksInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query over the indexed chunks"`
	// TopK is the maximum number of chunks to return.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Maximum number of chunks to return"`
}

// SearchChunksOutput contains the scored search results.
type SearchChunksOutput struct {
	// Results is the list of matching chunks in store order.
	Results []ChunkResult `json:"results"`
	// Message provides informational context (e.g. an empty collection).
	Message string `json:"message,omitempty"`
}

// IndexStatusInput defines the input parameters for the index_status tool.
// This tool takes no parameters.
type IndexStatusInput struct{}

// IndexStatusOutput reports the state of the chunk collection.
type IndexStatusOutput struct {
	// Collection is the Qdrant collection name being served.
	Collection string `json:"collection"`
	// Points is the number of stored chunk vectors.
	Points uint64 `json:"points"`
	// Ready indicates whether the collection holds any chunks.
	Ready bool `json:"ready"`
}
