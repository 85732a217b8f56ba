package domain

// Attribute names shared by every backend schema.
const (
	FieldTenant    = "tenant_id"
	FieldTitle     = "title"
	FieldURL       = "url"
	FieldBody      = "body"
	FieldEmbedding = "embedding"
)

// IndexLayout describes where documents live in the backend and which stored
// attributes the gateway reads back. It is fixed at startup.
type IndexLayout struct {
	Name        string
	KeyPrefix   string
	TenantField string
	VectorField string
	TextFields  []string
	// DisplayFields are returned with every hit; title and url are mandatory.
	DisplayFields []string
	Dimensions    int
}

// DefaultIndexLayout returns the layout used by the seed tool and the server.
func DefaultIndexLayout(name, keyPrefix string, dims int) IndexLayout {
	return IndexLayout{
		Name:          name,
		KeyPrefix:     keyPrefix,
		TenantField:   FieldTenant,
		VectorField:   FieldEmbedding,
		TextFields:    []string{FieldTitle, FieldBody},
		DisplayFields: []string{FieldTitle, FieldURL, FieldBody},
		Dimensions:    dims,
	}
}
