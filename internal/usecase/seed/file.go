package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domdoc "github.com/kailas-cloud/fusegate/internal/domain/document"
	"github.com/kailas-cloud/fusegate/internal/domain/search/query"
)

// File is the YAML layout of a seed documents file.
type File struct {
	Documents []Entry `yaml:"documents"`
}

// Entry is one document in a seed file. An empty tenant means the default tenant.
type Entry struct {
	ID       string            `yaml:"id"`
	TenantID string            `yaml:"tenant_id"`
	Title    string            `yaml:"title"`
	URL      string            `yaml:"url"`
	Body     string            `yaml:"body"`
	Fields   map[string]string `yaml:"fields"`
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) ([]domdoc.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	docs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return docs, nil
}

// Parse decodes a seed file. Unknown keys and duplicate ids are rejected.
func Parse(data []byte) ([]domdoc.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(f.Documents))
	seen := make(map[string]int, len(f.Documents))
	for i, e := range f.Documents {
		if prev, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("document %d: duplicate id %q (first at %d)", i, e.ID, prev)
		}
		seen[e.ID] = i

		tenant := e.TenantID
		if tenant == "" {
			tenant = query.DefaultTenant
		}
		d, err := domdoc.New(e.ID, tenant, e.Title, e.URL, e.Body, e.Fields)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
