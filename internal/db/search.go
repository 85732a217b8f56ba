package db

import "github.com/kailas-cloud/fusegate/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName   string
	VectorField string
	Filters     filter.Expression
	Vector      []float32
	K           int
	// EFRuntime is the candidate pool the HNSW search draws from (>= K).
	EFRuntime    int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	Query        string
	TextFields   []string
	Filters      filter.Expression
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is a similarity (higher is
// better) for KNN and the backend's relevance score for BM25.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
