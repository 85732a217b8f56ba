// Package fused defines one row of a hybrid ranking.
package fused

import "github.com/kailas-cloud/fusegate/internal/domain/search/hit"

// Source records which retrieval modes returned the id.
type Source string

// Source values.
const (
	SourceLexical Source = "lexical"
	SourceVector  Source = "vector"
	SourceBoth    Source = "both"
)

// Result is a fused row. LexicalScore and VectorScore are normalized and are 0
// when the id was absent from that mode.
type Result struct {
	ID           string
	HybridScore  float64
	LexicalScore float64
	VectorScore  float64
	Document     hit.Document
	Source       Source
}
