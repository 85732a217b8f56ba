package document

import (
	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain"
	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
)

// toRecord flattens a document into backend fields. Extra attributes never
// override the reserved ones.
func toRecord(l domain.IndexLayout, doc *domdoc.Document, vec []float32) db.Record {
	fields := make(map[string]string, len(doc.Extra())+4)
	for k, v := range doc.Extra() {
		fields[k] = v
	}
	fields[l.TenantField] = doc.TenantID()
	fields[domain.FieldTitle] = doc.Title()
	if doc.URL() != "" {
		fields[domain.FieldURL] = doc.URL()
	}
	if doc.Body() != "" {
		fields[domain.FieldBody] = doc.Body()
	}
	delete(fields, l.VectorField)

	return db.Record{ID: doc.ID(), Fields: fields, Vector: vec}
}
