package storage

import (
	"context"
	"io"
	"time"
)

// Package storage retains a copy of every original upload in S3-compatible
// object storage. The remote processing service owns the canonical file; the
// retained copy exists so a submission whose remote task was lost (orphaned
// between remote accept and local persist) can be re-ingested manually, and
// so the raw original stays downloadable. Implementations stream only, no
// local disk.

// SaveOptions define optional parameters for retaining an object.
// Size should be the exact number of bytes if known; -1 lets the backend
// buffer/chunk as it supports.
type SaveOptions struct {
	Size             int64
	ContentType      string
	OriginalFilename string
}

// Retention is the object-store client for retained originals.
type Retention interface {
	// Save stores the original upload under the given key.
	Save(ctx context.Context, key string, r io.Reader, opt SaveOptions) error
	// Open streams a retained original back, e.g. to re-submit it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes a retained original, typically with its record.
	Remove(ctx context.Context, key string) error
	// PresignDownload returns a time-limited URL for the retained original.
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
}
