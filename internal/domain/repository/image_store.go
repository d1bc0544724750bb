package repository

import (
	"context"
	"errors"
	"io"
)

// ErrImageNotFound is returned by ImageStore.Open for unknown names.
var ErrImageNotFound = errors.New("image not found")

// ImageStore keeps uploaded profile images. The returned name is the only
// reference to the object and is what gets stored on the user record.
type ImageStore interface {
	// Save writes r under a name derived from originalName that did not
	// exist before the call.
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	// Delete removes the named object. Missing objects are not an error.
	Delete(ctx context.Context, name string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
