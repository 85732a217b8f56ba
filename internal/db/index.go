package db

import (
	"errors"
	"strconv"
)

// DistanceMetric used by vector similarity queries.
type DistanceMetric string

const (
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldTag is an exact-match attribute (tenant, category).
	IndexFieldTag IndexFieldType = iota
	// IndexFieldText is a full-text attribute scored by BM25.
	IndexFieldText
	// IndexFieldStored is returned with hits but not indexed.
	IndexFieldStored
	// IndexFieldVector is an HNSW vector attribute.
	IndexFieldVector
)

// HNSWParams tunes the vector graph at build time.
type HNSWParams struct {
	M              int // max edges per node (default 16)
	EFConstruction int // build-time dynamic list size (default 200)
}

// DefaultHNSW matches the defaults of both supported backends.
var DefaultHNSW = HNSWParams{M: 16, EFConstruction: 200}

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// TEXT options
	TextWeight float64 // 0 means backend default (1.0)

	// VECTOR options
	VectorDim      int
	VectorDistance DistanceMetric
	HNSW           HNSWParams
}

// IndexDefinition is the backend-neutral schema. Redis renders it as
// FT.CREATE, Postgres as a table plus GIN/HNSW indexes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	vectors := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if !IsValidIdentifier(f.Name) {
			return errors.New("field name contains invalid characters: " + f.Name)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Type == IndexFieldVector {
			vectors++
			if f.VectorDim <= 0 {
				return errors.New("vector field requires positive DIM")
			}
		}
	}
	if vectors > 1 {
		return errors.New("at most one vector field is supported")
	}

	return nil
}

// FieldsOf returns the names of fields with type t, in schema order.
func (idx *IndexDefinition) FieldsOf(t IndexFieldType) []string {
	var out []string
	for i := range idx.Fields {
		if idx.Fields[i].Type == t {
			out = append(out, idx.Fields[i].Name)
		}
	}
	return out
}

// VectorField returns the vector field, if any.
func (idx *IndexDefinition) VectorField() (IndexField, bool) {
	for i := range idx.Fields {
		if idx.Fields[i].Type == IndexFieldVector {
			return idx.Fields[i], true
		}
	}
	return IndexField{}, false
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
