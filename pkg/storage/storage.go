// Package storage provides object storage for uploaded media with an
// S3-backed implementation. Uploads return a publicly accessible URL.
package storage

import (
	"context"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

// Uploader stores binary content and returns its public URL.
type Uploader interface {
	// Upload stores data under a generated key derived from filename
	// and returns the public URL of the stored object.
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	// Delete removes a previously uploaded object by its key.
	Delete(ctx context.Context, key string) error
}

// allowedImageTypes lists content types accepted for cover images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips directory components and replaces characters
// that are unsafe in object keys or URLs.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// DetectImageType sniffs the content type of data and reports whether
// it is an accepted image format.
func DetectImageType(data []byte) (string, bool) {
	mimeType := http.DetectContentType(data)
	return mimeType, allowedImageTypes[mimeType]
}
