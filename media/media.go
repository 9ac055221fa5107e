// Package media stores blog post images in an S3-compatible bucket and
// hands back public URLs plus the key needed to delete them later.
package media

import (
	"context"
	"io"
)

// Asset is a stored image: the URL served to readers and the opaque key
// ("public ID") used to request deletion.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Store is the image-host collaborator. Destroy must tolerate missing
// identifiers (empty publicID is a no-op); callers treat deletion as
// best-effort and never fail a record mutation over it.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}
