package storage

import (
	"context"
	"io"
	"time"
)

// Uploader writes an object and returns the key it was stored under.
// Resume objects are private; nothing here exposes a public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (storedKey string, err error)
}

// Signer mints short-lived read URLs for stored objects.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
