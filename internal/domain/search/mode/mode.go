// Package mode names the three retrieval endpoints.
package mode

// Mode is the retrieval strategy. Values are the wire names used in routes,
// responses and metric labels.
type Mode string

const (
	Keyword  Mode = "keyword"
	Semantic Mode = "semantic"
	// Hybrid fuses Keyword and Semantic.
	Hybrid Mode = "hybrid"
)

// All lists the modes in route registration order.
func All() []Mode {
	return []Mode{Keyword, Semantic, Hybrid}
}

