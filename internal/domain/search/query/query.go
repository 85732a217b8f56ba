package query

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/fusegate/internal/domain"
)

// Defaults applied to absent optional fields.
const (
	DefaultTenant = "demo"
	DefaultAlpha  = 0.5
	// MaxTextLength bounds the query text in bytes.
	MaxTextLength = 4096
)

// Query is an accepted retrieval request (immutable value object).
type Query struct {
	text     string
	tenantID string
	alpha    float64
}

// New creates a Query. An empty tenant becomes DefaultTenant and a nil alpha
// becomes DefaultAlpha. Alpha outside [0,1] is accepted as is; NaN and
// infinities are rejected.
func New(text, tenantID string, alpha *float64) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	a := DefaultAlpha
	if alpha != nil {
		a = *alpha
	}
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return Query{}, fmt.Errorf("%w: alpha must be a finite number", domain.ErrInvalidQuery)
	}
	return Query{text: text, tenantID: tenantID, alpha: a}, nil
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// TenantID returns the tenant the query is scoped to.
func (q Query) TenantID() string { return q.tenantID }

// Alpha returns the lexical weight used by hybrid fusion.
func (q Query) Alpha() float64 { return q.alpha }
