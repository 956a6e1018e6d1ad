package db

import "errors"

var (
	// ErrIndexNotFound is returned when the professor or review index does not exist.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists lets ingestion treat a repeated index creation as success.
	ErrIndexExists = errors.New("db: index already exists")
	// ErrInvalidQuery marks a request rejected before it reaches Redis. Retrying cannot help.
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Redis command names reported in Error.Op.
const (
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpHSet        = "HSET"
)

// Error ties a Redis failure to the command that produced it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
