package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/fusegate/internal/db"
)

// PutRecords upserts rows in one batch. Fields that are not index columns
// land in the extra jsonb column.
func (s *Store) PutRecords(ctx context.Context, def *db.IndexDefinition, records []db.Record) error {
	if len(records) == 0 {
		return nil
	}
	vf, ok := def.VectorField()
	if !ok {
		return fmt.Errorf("index %s has no vector field", def.Name)
	}

	sql := buildUpsertSQL(def)
	batch := &pgx.Batch{}
	for i := range records {
		args, err := upsertArgs(def, vf, &records[i])
		if err != nil {
			return err
		}
		batch.Queue(sql, args...)
	}

	br := s.pool.SendBatch(ctx, batch)
	for range records {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrap(db.OpPGUpsert, err)
		}
	}
	if err := br.Close(); err != nil {
		return wrap(db.OpPGUpsert, err)
	}
	return nil
}

// columnsOf returns the writable columns in schema order: id, the scalar
// fields, extra, then the vector.
func columnsOf(def *db.IndexDefinition) []string {
	cols := []string{colID}
	for i := range def.Fields {
		if def.Fields[i].Type != db.IndexFieldVector {
			cols = append(cols, def.Fields[i].Name)
		}
	}
	cols = append(cols, colExtra)
	if vf, ok := def.VectorField(); ok {
		cols = append(cols, vf.Name)
	}
	return cols
}

func buildUpsertSQL(def *db.IndexDefinition) string {
	cols := columnsOf(def)
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	var updates []string
	for i, c := range cols {
		quoted[i] = ident(c)
		params[i] = "$" + strconv.Itoa(i+1)
		if c != colID {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
		}
	}
	if _, ok := def.VectorField(); ok {
		params[len(params)-1] += "::vector"
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		ident(def.Name), strings.Join(quoted, ", "), strings.Join(params, ", "),
		ident(colID), strings.Join(updates, ", "))
}

func upsertArgs(def *db.IndexDefinition, vf db.IndexField, r *db.Record) ([]any, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("record id is required")
	}
	if len(r.Vector) != vf.VectorDim {
		return nil, fmt.Errorf("record %s: vector has %d dimensions, index expects %d",
			r.ID, len(r.Vector), vf.VectorDim)
	}

	known := make(map[string]bool, len(def.Fields))
	args := []any{r.ID}
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Type == db.IndexFieldVector {
			continue
		}
		known[f.Name] = true
		v, ok := r.Fields[f.Name]
		if !ok && f.Type != db.IndexFieldTag {
			args = append(args, nil)
			continue
		}
		args = append(args, v)
	}

	extra := make(map[string]string)
	for k, v := range r.Fields {
		if !known[k] {
			extra[k] = v
		}
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("encode extra fields: %w", err)
	}
	args = append(args, string(raw), formatVector(r.Vector))
	return args, nil
}
