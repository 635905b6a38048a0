package storage

import "errors"

var (
	ErrIndexUnreachable  = errors.New("vector index server unreachable")
	ErrIndexMissing      = errors.New("vector index does not exist")
	ErrIndexEmpty        = errors.New("vector index contains no chunks")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
