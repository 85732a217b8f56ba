// Package hit defines a single ranked result from one retrieval mode.
package hit

// Document is the display payload of a hit. It is never used for scoring.
type Document struct {
	Title string
	URL   string
	// Extra carries other stored display fields through untouched.
	Extra map[string]string
}

// Hit is one raw result. Score semantics depend on the mode: unbounded
// relevance for lexical search, similarity for vector search.
type Hit struct {
	ID       string
	Score    float64
	Document Document
}

// New creates a Hit.
func New(id string, score float64, doc Document) Hit {
	return Hit{ID: id, Score: score, Document: doc}
}

// DocumentFromFields splits stored attributes into the display payload.
// Keys listed in skip are dropped (internal attributes such as the tenant).
func DocumentFromFields(fields map[string]string, titleKey, urlKey string, skip ...string) Document {
	doc := Document{Title: fields[titleKey], URL: fields[urlKey]}
	for k, v := range fields {
		if k == titleKey || k == urlKey || contains(skip, k) {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]string)
		}
		doc.Extra[k] = v
	}
	return doc
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
