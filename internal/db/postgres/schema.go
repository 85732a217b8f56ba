package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/fusegate/internal/db"
)

// Reserved column names; index fields must not collide with them.
const (
	colID    = "id"
	colTSV   = "tsv"
	colExtra = "extra"
)

// CreateIndex creates the table, the full-text GIN index, the HNSW index and
// a btree per tag column in one transaction.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	stmts, err := buildCreateSQL(def, s.language)
	if err != nil {
		return err
	}

	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return err
	}
	if exists {
		return db.ErrIndexExists
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("%s: %w", firstLine(stmt), err)
			}
		}
		return nil
	})
	if err != nil {
		return wrap(db.OpPGCreate, err)
	}
	return nil
}

// DropIndex drops the table and its indexes.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, "DROP TABLE "+ident(name)); err != nil {
		e := wrap(db.OpPGDrop, err)
		if errors.Is(e, db.ErrIndexNotFound) {
			return db.ErrIndexNotFound
		}
		return e
	}
	return nil
}

// IndexExists reports whether the table exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", ident(name)).Scan(&exists); err != nil {
		return false, wrap(db.OpPGExists, err)
	}
	return exists, nil
}

// buildCreateSQL renders the DDL for an index definition.
func buildCreateSQL(def *db.IndexDefinition, language string) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	vf, ok := def.VectorField()
	if !ok {
		return nil, fmt.Errorf("index %s has no vector field", def.Name)
	}

	table := ident(def.Name)
	cols := []string{ident(colID) + " text PRIMARY KEY"}
	var tsParts []string
	for i := range def.Fields {
		f := &def.Fields[i]
		switch f.Name {
		case colID, colTSV, colExtra:
			return nil, fmt.Errorf("field name %q is reserved", f.Name)
		}
		switch f.Type {
		case db.IndexFieldTag:
			cols = append(cols, ident(f.Name)+" text NOT NULL")
		case db.IndexFieldText:
			cols = append(cols, ident(f.Name)+" text")
			tsParts = append(tsParts, fmt.Sprintf("setweight(to_tsvector(%s, coalesce(%s, '')), '%s')",
				quoteLiteral(language), ident(f.Name), tsWeight(f.TextWeight)))
		case db.IndexFieldStored:
			cols = append(cols, ident(f.Name)+" text")
		case db.IndexFieldVector:
			cols = append(cols, fmt.Sprintf("%s vector(%d) NOT NULL", ident(f.Name), f.VectorDim))
		}
	}
	if len(tsParts) > 0 {
		cols = append(cols, fmt.Sprintf("%s tsvector GENERATED ALWAYS AS (%s) STORED",
			ident(colTSV), strings.Join(tsParts, " || ")))
	}
	cols = append(cols, ident(colExtra)+" jsonb NOT NULL DEFAULT '{}'::jsonb")

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t")),
	}
	if len(tsParts) > 0 {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX %s ON %s USING GIN (%s)",
			ident(def.Name+"_tsv_idx"), table, ident(colTSV)))
	}

	hnsw := vf.HNSW
	if hnsw.M <= 0 {
		hnsw.M = db.DefaultHNSW.M
	}
	if hnsw.EFConstruction <= 0 {
		hnsw.EFConstruction = db.DefaultHNSW.EFConstruction
	}
	stmts = append(stmts, fmt.Sprintf(
		"CREATE INDEX %s ON %s USING hnsw (%s %s) WITH (m = %d, ef_construction = %d)",
		ident(def.Name+"_"+vf.Name+"_idx"), table, ident(vf.Name), opClass(vf.VectorDistance),
		hnsw.M, hnsw.EFConstruction,
	))

	for _, tag := range def.FieldsOf(db.IndexFieldTag) {
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
			ident(def.Name+"_"+tag+"_idx"), table, ident(tag)))
	}
	return stmts, nil
}

func tsWeight(w float64) string {
	if w >= 2 {
		return "A"
	}
	return "B"
}

func opClass(d db.DistanceMetric) string {
	switch d {
	case db.DistanceL2:
		return "vector_l2_ops"
	case db.DistanceIP:
		return "vector_ip_ops"
	default:
		return "vector_cosine_ops"
	}
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func formatVector(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
