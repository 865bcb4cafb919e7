package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	BackendFile = "file"
	BackendBolt = "bolt"

	boltFileName = "suspended.bolt"
)

// Backend is a byte-oriented key-value store. Get returns nil data and no
// error when the key has never been written.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Close() error
}

// Error variables for common error conditions
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrLocked         = errors.New("storage is locked by another process")
	ErrModeMismatch   = errors.New("snapshot mode does not match the storage slot")
)

// OpenBackend opens the backend named kind under baseDir
func OpenBackend(kind, baseDir string) (Backend, error) {
	switch kind {
	case BackendFile:
		return NewFileBackend(baseDir), nil
	case BackendBolt:
		return OpenBoltBackend(filepath.Join(baseDir, boltFileName))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
