package services

import (
	"context"
	"io"
)

// PinResult identifies uploaded content: the content hash (or object key)
// and a public URL for it.
type PinResult struct {
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

// Pinner stores recordings and rights cards.
type Pinner interface {
	PinFile(ctx context.Context, filename, contentType string, r io.Reader, meta map[string]string) (*PinResult, error)
	PinJSON(ctx context.Context, filename string, v any, meta map[string]string) (*PinResult, error)
	// URL returns the public URL for a previously returned hash.
	URL(hash string) string
}
