// Package source abstracts where scanned files come from.
package source

import (
	"context"
	"errors"
	"io"
)

// ErrOutsideRoot is returned for paths escaping the source root.
var ErrOutsideRoot = errors.New("source: path outside root")

// Source provides read access to files below a root directory.
// Paths passed to Open are relative to Root.
type Source interface {
	Root() string
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Close() error
}

// Writer is implemented by sources that accept rewritten files.
type Writer interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}
