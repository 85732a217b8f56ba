package db

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/fusegate/internal/domain"
)

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix adds key prefixes to the index.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Tag adds a TAG field to the index.
func (b *IndexBuilder) Tag(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldTag})
	return b
}

// Text adds a TEXT field to the index.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	return b.WeightedText(name, 0)
}

// WeightedText adds a TEXT field whose matches count weight times.
func (b *IndexBuilder) WeightedText(name string, weight float64) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldText, TextWeight: weight})
	return b
}

// Stored adds a field that is returned with hits but not searchable.
func (b *IndexBuilder) Stored(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Type: IndexFieldStored})
	return b
}

// VectorHNSW adds a VECTOR field with the HNSW algorithm.
func (b *IndexBuilder) VectorHNSW(name string, dim int, distance DistanceMetric, p HNSWParams) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:           name,
		Type:           IndexFieldVector,
		VectorDim:      dim,
		VectorDistance: distance,
		HNSW:           p,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// FromLayout builds the document index for a layout: the tenant as TAG, the
// text fields as TEXT (title weighted x2), the remaining display fields as
// stored attributes and one cosine HNSW vector.
func FromLayout(l domain.IndexLayout, p HNSWParams) (*IndexDefinition, error) {
	b := NewIndex(l.Name).Tag(l.TenantField)
	if l.KeyPrefix != "" {
		b.Prefix(l.KeyPrefix)
	}

	text := make(map[string]bool, len(l.TextFields))
	for _, f := range l.TextFields {
		text[f] = true
		if f == domain.FieldTitle {
			b.WeightedText(f, 2)
			continue
		}
		b.Text(f)
	}
	for _, f := range l.DisplayFields {
		if !text[f] {
			b.Stored(f)
		}
	}

	return b.VectorHNSW(l.VectorField, l.Dimensions, DistanceCosine, p).Build()
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name, "ON", "HASH"}
	if len(idx.Prefixes) > 0 {
		parts = append(parts, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		parts = append(parts, idx.Prefixes...)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		switch f.Type {
		case IndexFieldTag:
			parts = append(parts, f.Name, "TAG")
		case IndexFieldText:
			parts = append(parts, f.Name, "TEXT")
		case IndexFieldVector:
			parts = append(parts, f.Name, "VECTOR", "HNSW")
		case IndexFieldStored:
			// not part of the FT schema
		}
	}
	return strings.Join(parts, " ")
}
