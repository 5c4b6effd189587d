// Package imagestore defines the external image storage collaborator.
package imagestore

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Store uploads product images and returns a public URL.
type Store interface {
	StoreImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Placeholder is the development store: the upload is drained and a
// placeholder URL is returned, the way the storefront behaves before a
// real bucket is configured.
type Placeholder struct {
	BaseURL string
}

func (p Placeholder) StoreImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", filename, err)
	}
	base := p.BaseURL
	if base == "" {
		base = "/api/placeholder/300/200"
	}
	return fmt.Sprintf("%s?img=%s", base, uuid.NewString()), nil
}
