package domain

import (
	"context"
	"io"
	"time"
)

// Receipt holds the stored object keys of a movement's receipt image variants
type Receipt struct {
	ID           string
	OriginalKey  string
	DisplayKey   string
	ThumbnailKey string
}

// ReceiptURLs are presigned, time-limited links to a receipt's variants
type ReceiptURLs struct {
	Original  string
	Display   string
	Thumbnail string
	ExpiresAt time.Time
}

// ObjectStore is the blob storage used for receipt images
type ObjectStore interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
