package fusegate

// Query is one retrieval request. Alpha is only used by Hybrid; nil means 0.5.
type Query struct {
	Text     string
	TenantID string
	Alpha    *float64
}

// Hit is one keyword or semantic result in backend order.
type Hit struct {
	ID     string
	Score  float64
	Title  string
	URL    string
	Fields map[string]string
}

// Source records which retrieval modes returned a hybrid row.
type Source string

// Source constants.
const (
	SourceLexical Source = "lexical"
	SourceVector  Source = "vector"
	SourceBoth    Source = "both"
)

// FusedHit is one hybrid result. BM25Score and VectorScore are normalized to
// [0,1] and are 0 when the mode did not return the document.
type FusedHit struct {
	ID          string
	HybridScore float64
	BM25Score   float64
	VectorScore float64
	Title       string
	URL         string
	Source      Source
	Fields      map[string]string
}
