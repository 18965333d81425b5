package object

import (
	"context"
	"io"
)

// ObjectStore reads and writes opaque blobs by key. The catalog dataset is
// stored through it.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
}
