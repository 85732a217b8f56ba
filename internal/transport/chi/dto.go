package chi

import (
	"github.com/kailas-cloud/fusegate/internal/domain/search/fused"
	"github.com/kailas-cloud/fusegate/internal/domain/search/hit"
	"github.com/kailas-cloud/fusegate/internal/domain/search/mode"
	healthuc "github.com/kailas-cloud/fusegate/internal/usecase/health"
)

type searchRequest struct {
	Query    string   `json:"query"`
	TenantID string   `json:"tenant_id"`
	Alpha    *float64 `json:"alpha"`
}

type searchResponse struct {
	Mode    mode.Mode `json:"mode"`
	Query   string    `json:"query"`
	Alpha   *float64  `json:"alpha,omitempty"`
	Results any       `json:"results"`
}

type hitItem struct {
	ID     string            `json:"id"`
	Score  float64           `json:"score"`
	Title  string            `json:"title"`
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields,omitempty"`
}

type fusedItem struct {
	ID          string            `json:"id"`
	HybridScore float64           `json:"hybrid_score"`
	BM25Score   float64           `json:"bm25_score"`
	VectorScore float64           `json:"vector_score"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Source      fused.Source      `json:"source"`
	Fields      map[string]string `json:"fields,omitempty"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func hitToItem(h *hit.Hit) hitItem {
	return hitItem{
		ID:     h.ID,
		Score:  h.Score,
		Title:  h.Document.Title,
		URL:    h.Document.URL,
		Fields: h.Document.Extra,
	}
}

func fusedToItem(r *fused.Result) fusedItem {
	return fusedItem{
		ID:          r.ID,
		HybridScore: r.HybridScore,
		BM25Score:   r.LexicalScore,
		VectorScore: r.VectorScore,
		Title:       r.Document.Title,
		URL:         r.Document.URL,
		Source:      r.Source,
		Fields:      r.Document.Extra,
	}
}
