package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/fusegate/internal/db"
)

// PutRecords stores records as hashes under the index's first prefix in a
// single DoMulti round-trip. The vector is written as a FLOAT32 blob.
func (s *Store) PutRecords(ctx context.Context, def *db.IndexDefinition, records []db.Record) error {
	if len(records) == 0 {
		return nil
	}
	vf, ok := def.VectorField()
	if !ok {
		return fmt.Errorf("index %s has no vector field", def.Name)
	}
	prefix := ""
	if len(def.Prefixes) > 0 {
		prefix = def.Prefixes[0]
	}

	cmds := make([]rueidis.Completed, len(records))
	for i, rec := range records {
		if len(rec.Vector) != vf.VectorDim {
			return fmt.Errorf("record %s: vector has %d dims, index expects %d", rec.ID, len(rec.Vector), vf.VectorDim)
		}
		cmd := s.b().Hset().Key(prefix+rec.ID).FieldValue().
			FieldValue(vf.Name, vectorToBytes(rec.Vector))
		for k, v := range rec.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds[i] = cmd.Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: %w", prefix+records[i].ID, err)}
		}
	}
	return nil
}
