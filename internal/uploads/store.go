// Package uploads holds the binary asset store backing /uploads paths:
// spreadsheet-import images, gallery uploads and testimonial photos.
package uploads

import (
	"context"
	"io"
	"path"
	"strings"
)

// PathPrefix is the public URL prefix under which disk-stored assets are
// served.
const PathPrefix = "/uploads"

// Store persists uploaded binaries under generated names and returns the
// public path (or absolute URL for object storage) of each saved asset.
// Assets are never deleted by the application; orphan accumulation is an
// accepted limitation.
type Store interface {
	// Save writes r under a generated unique name keeping filename's
	// extension and returns the public path of the stored asset.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// List returns the public paths of all stored image assets.
	List(ctx context.Context) ([]string, error)
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".svg":  true,
}

// IsImageName reports whether the filename carries an image-like extension.
func IsImageName(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}
