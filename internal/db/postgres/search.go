package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/fusegate/internal/db"
	"github.com/kailas-cloud/fusegate/internal/domain/search/filter"
)

// SearchBM25 ranks rows by ts_rank_cd over the generated tsvector column.
// Query terms are OR'd, matching the Redis backend.
func (s *Store) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.TopK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}

	sql, args := buildLexicalSQL(q, s.language)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(db.OpPGLexical, err)
	}
	entries, err := pgx.CollectRows(rows, scanEntry(q.ReturnFields))
	if err != nil {
		return nil, wrap(db.OpPGLexical, err)
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// SearchKNN orders rows by cosine distance using the HNSW index. The
// hnsw.ef_search setting is scoped to the query's transaction.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.VectorField == "" {
		return nil, fmt.Errorf("vector field is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	sql, args := buildKNNSQL(q)
	var entries []db.SearchEntry
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, efSearchSQL(q)); err != nil {
			return fmt.Errorf("set ef_search: %w", err)
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		entries, err = pgx.CollectRows(rows, scanEntry(q.ReturnFields))
		return err
	})
	if err != nil {
		return nil, wrap(db.OpPGVector, err)
	}

	for i := range entries {
		// distance is in [0, 2]; similarity below 0 means opposite direction
		entries[i].Score = max(0, 1-entries[i].Score)
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// buildLexicalSQL renders the ranked full-text query. Args: filters first,
// then the query text and the limit.
func buildLexicalSQL(q *db.TextQuery, language string) (string, []any) {
	where, args := buildWhere(q.Filters, nil)

	args = append(args, q.Query)
	textArg := "$" + strconv.Itoa(len(args))
	tsq := fmt.Sprintf("replace(plainto_tsquery(%s, %s)::text, '&', '|')::tsquery",
		quoteLiteral(language), textArg)

	args = append(args, q.TopK)
	limitArg := "$" + strconv.Itoa(len(args))

	where = append(where, fmt.Sprintf("d.%s @@ %s", ident(colTSV), tsq))

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT d.%s, ts_rank_cd(d.%s, %s) AS score, %s AS doc\n",
		ident(colID), ident(colTSV), tsq, docExpr(""))
	fmt.Fprintf(&sb, "FROM %s d\n", ident(q.IndexName))
	fmt.Fprintf(&sb, "WHERE %s\n", strings.Join(where, " AND "))
	fmt.Fprintf(&sb, "ORDER BY score DESC, d.%s\n", ident(colID))
	fmt.Fprintf(&sb, "LIMIT %s", limitArg)
	return sb.String(), args
}

// buildKNNSQL renders the nearest-neighbour query. The score column is the
// raw cosine distance; callers convert it to similarity.
func buildKNNSQL(q *db.KNNQuery) (string, []any) {
	args := []any{formatVector(q.Vector)}
	dist := fmt.Sprintf("d.%s <=> $1::vector", ident(q.VectorField))

	where, args := buildWhere(q.Filters, args)
	args = append(args, q.K)
	limitArg := "$" + strconv.Itoa(len(args))

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT d.%s, %s AS score, %s AS doc\n", ident(colID), dist, docExpr(q.VectorField))
	fmt.Fprintf(&sb, "FROM %s d\n", ident(q.IndexName))
	if len(where) > 0 {
		fmt.Fprintf(&sb, "WHERE %s\n", strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, "ORDER BY %s, d.%s\n", dist, ident(colID))
	fmt.Fprintf(&sb, "LIMIT %s", limitArg)
	return sb.String(), args
}

func efSearchSQL(q *db.KNNQuery) string {
	return "SET LOCAL hnsw.ef_search = " + strconv.Itoa(max(q.EFRuntime, q.K))
}

// buildWhere renders each MUST condition as an equality on its column,
// continuing the placeholder numbering after args.
func buildWhere(expr filter.Expression, args []any) ([]string, []any) {
	var where []string
	for _, c := range expr.Must() {
		args = append(args, c.Value())
		where = append(where, fmt.Sprintf("d.%s = $%d", ident(c.Key()), len(args)))
	}
	return where, args
}

// docExpr projects the row as JSON without the internal columns.
func docExpr(vectorField string) string {
	expr := "to_jsonb(d) - " + quoteLiteral(colTSV)
	if vectorField != "" {
		expr += " - " + quoteLiteral(vectorField)
	}
	return expr
}

// scanEntry returns a row scanner that flattens the JSON document into
// string fields. Keys from the extra column are merged in.
func scanEntry(returnFields []string) pgx.RowToFunc[db.SearchEntry] {
	return func(row pgx.CollectableRow) (db.SearchEntry, error) {
		var (
			e   db.SearchEntry
			raw []byte
		)
		if err := row.Scan(&e.Key, &e.Score, &raw); err != nil {
			return db.SearchEntry{}, err
		}
		fields, err := flattenDoc(raw, returnFields)
		if err != nil {
			return db.SearchEntry{}, err
		}
		e.Fields = fields
		return e, nil
	}
}

func flattenDoc(raw []byte, returnFields []string) (map[string]string, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	var keep map[string]bool
	if len(returnFields) > 0 {
		keep = make(map[string]bool, len(returnFields))
		for _, f := range returnFields {
			keep[f] = true
		}
	}

	// Extras go in first so a real column always wins a key collision.
	out := make(map[string]string, len(doc))
	extra, _ := doc[colExtra].(map[string]any)
	for ek, ev := range extra {
		if _, isColumn := doc[ek]; isColumn {
			continue
		}
		if s, ok := ev.(string); ok {
			out[ek] = s
		}
	}
	for k, v := range doc {
		if k == colID || k == colExtra || (keep != nil && !keep[k]) {
			continue
		}
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out, nil
}
