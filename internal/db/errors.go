package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Op names carried in Error for diagnostics. Redis ops are command names.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
	OpPing        = "PING"

	OpPGLexical = "pg.lexical"
	OpPGVector  = "pg.vector"
	OpPGCreate  = "pg.create"
	OpPGDrop    = "pg.drop"
	OpPGExists  = "pg.exists"
	OpPGUpsert  = "pg.upsert"
	OpPGConnect = "pg.connect"
	OpPGPing    = "pg.ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
