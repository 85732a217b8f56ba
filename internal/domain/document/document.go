package document

import (
	"fmt"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxBodySize is the maximum document body size in bytes.
const MaxBodySize = 163840 // 160KB

// Document is a corpus entry owned by exactly one tenant (immutable value object).
type Document struct {
	id       string
	tenantID string
	title    string
	url      string
	body     string
	extra    map[string]string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Tenant and title are required; the body
// may be empty (the title is still indexed for lexical search).
func New(id, tenantID, title, url, body string, extra map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if strings.TrimSpace(tenantID) == "" {
		return Document{}, fmt.Errorf("tenant is required for document %q", id)
	}
	if title == "" {
		return Document{}, fmt.Errorf("title is required for document %q", id)
	}
	if len(body) > MaxBodySize {
		return Document{}, fmt.Errorf("body too large (max %d bytes)", MaxBodySize)
	}

	return Document{
		id:       id,
		tenantID: tenantID,
		title:    title,
		url:      url,
		body:     body,
		extra:    cloneStringMap(extra),
	}, nil
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// TenantID returns the owning tenant.
func (d Document) TenantID() string { return d.tenantID }

// Title returns the display title.
func (d Document) Title() string { return d.title }

// URL returns the display link.
func (d Document) URL() string { return d.url }

// Body returns the indexed text.
func (d Document) Body() string { return d.body }

// Extra returns additional stored display fields.
func (d Document) Extra() map[string]string { return d.extra }

// EmbeddingText is the text vectorized for this document.
func (d Document) EmbeddingText() string {
	if d.body == "" {
		return d.title
	}
	return d.title + "\n" + d.body
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
