package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	dimaging "github.com/disintegration/imaging"

	"github.com/maax3v3/diecut/internal/datauri"
)

// DefaultMaxBytes caps the size of a fetched image body.
const DefaultMaxBytes = 32 << 20

// DefaultMaxPixels caps width*height of a pixel surface.
const DefaultMaxPixels = 64 << 20

// AcquireOptions configures Acquire.
type AcquireOptions struct {
	// Client fetches remote images. Default: http.DefaultClient.
	Client *http.Client

	// MaxBytes limits the encoded size of a remote image. 0 means DefaultMaxBytes.
	MaxBytes int64

	// AllowFiles lets plain references load from the local filesystem.
	// Without it only data URIs and http(s) URLs are accepted.
	AllowFiles bool
}

// Acquire loads an image from a data URI, an http(s) URL or, when
// opts.AllowFiles is set, a file path. Every failure wraps ErrDecode.
func Acquire(ctx context.Context, ref string, opts AcquireOptions) (image.Image, error) {
	switch {
	case datauri.IsDataURI(ref):
		_, data, err := datauri.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return Decode(bytes.NewReader(data))
	case isRemote(ref):
		return fetch(ctx, ref, opts)
	case ref == "":
		return nil, fmt.Errorf("%w: empty image reference", ErrDecode)
	case !opts.AllowFiles:
		return nil, fmt.Errorf("%w: unsupported image reference (want a data URI or http(s) URL)", ErrDecode)
	default:
		return Load(ref)
	}
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetch(ctx context.Context, url string, opts AcquireOptions) (image.Image, error) {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrDecode, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrDecode, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetching %s: status %s", ErrDecode, url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDecode, url, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDecode, url, maxBytes)
	}
	return Decode(bytes.NewReader(data))
}

// Surface copies img into a new zero-origin NRGBA buffer of the same size.
// img itself is never modified. maxPixels <= 0 means DefaultMaxPixels.
func Surface(img image.Image, maxPixels int) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrSurface)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrSurface, b)
	}
	if w > maxPixels/h {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSurface, w, h, maxPixels)
	}
	return dimaging.Clone(img), nil
}
