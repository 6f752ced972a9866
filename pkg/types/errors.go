package types

import "errors"

// Domain errors shared across packages
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrRepoNotFound       = errors.New("repository root not found")
	ErrNotDirectory       = errors.New("path is not a directory")
	ErrBinaryFile         = errors.New("file is not valid text")
	ErrParseFailed        = errors.New("source parse failed")
	ErrEmptyChunk         = errors.New("chunk contains no files")
)
