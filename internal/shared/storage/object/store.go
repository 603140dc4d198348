package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned when a storage key tries to escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving exported files.
type ObjectStore interface {
	// Save writes r under the owner's namespace and returns the generated key.
	Save(ctx context.Context, owner, fileName, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
