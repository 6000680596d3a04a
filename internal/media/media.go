// Package media moves inline product images (data: URIs) to S3-compatible
// object storage so remote documents carry short URLs instead of payloads.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resolver turns the image references of a product into storable ones.
type Resolver interface {
	Resolve(ctx context.Context, images []string) ([]string, error)
}

var ErrMalformedDataURI = errors.New("malformed data URI")

// IsDataURI reports whether ref is an inline data: image.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// ParseDataURI decodes "data:[<mime>][;base64],<payload>".
func ParseDataURI(ref string) (mime string, data []byte, err error) {
	if !IsDataURI(ref) {
		return "", nil, ErrMalformedDataURI
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return "", nil, ErrMalformedDataURI
	}

	isBase64 := strings.HasSuffix(meta, ";base64")
	mime = strings.TrimSuffix(meta, ";base64")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if mime == "" {
		mime = "text/plain"
	}

	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrMalformedDataURI, err)
	}
	return mime, data, nil
}

var extensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

func extensionFor(mime string) string {
	if ext, ok := extensions[mime]; ok {
		return ext
	}
	return "bin"
}

// storageKey is a seam for deterministic keys in tests.
var storageKey = func(mime string) string {
	d := time.Now()
	return fmt.Sprintf("products/%d/%02d/%02d/%v.%s", d.Year(), d.Month(), d.Day(), uuid.New(), extensionFor(mime))
}
