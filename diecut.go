// Package diecut removes the white background from die-cut sticker images.
//
// A die-cut sticker is a subject outlined by a white border, placed on a
// white background. diecut flood-fills from the four image corners and
// makes every connected near-white pixel transparent, so white details
// inside the subject (eyes, highlights) are kept.
//
// Usage as a library:
//
//	out, _ := diecut.RemoveBackground(ctx, "data:image/png;base64,...", diecut.DefaultOptions())
//
// Or on files:
//
//	err := diecut.RemoveBackgroundFile("sticker.png", "sticker-transparent.png", diecut.DefaultOptions())
package diecut

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/maax3v3/diecut/internal/color"
	"github.com/maax3v3/diecut/internal/datauri"
	"github.com/maax3v3/diecut/internal/floodfill"
	"github.com/maax3v3/diecut/internal/imaging"
)

var (
	// ErrDecode is returned when the source image cannot be loaded or decoded.
	ErrDecode = imaging.ErrDecode

	// ErrSurface is returned when no pixel buffer can be built for the image.
	ErrSurface = imaging.ErrSurface
)

// Options configures background removal.
type Options struct {
	// TargetColor is the background color to remove.
	// Default: white (#FFFFFF).
	TargetColor Color

	// Tolerance is the per-channel distance below which a pixel counts as
	// background. A pixel matches when |R-tr|, |G-tg| and |B-tb| are all
	// strictly less than Tolerance.
	// Default: 50.
	Tolerance int

	// MaxPixels bounds width*height of the decoded image. 0 means
	// imaging.DefaultMaxPixels.
	MaxPixels int

	// HTTPClient fetches remote sources. nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Color represents an RGBA color with 8-bit components.
type Color struct {
	R, G, B, A uint8
}

// Stats describes the result of one flood fill.
type Stats struct {
	Width, Height int
	Visited       int
	Cleared       int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		TargetColor: Color{255, 255, 255, 255},
		Tolerance:   floodfill.DefaultTolerance,
	}
}

// ParseHexColor parses a hex color string like "#fff", "#FF00FF".
func ParseHexColor(hex string) (Color, error) {
	c, err := color.ParseHex(hex)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// LoadImage reads an image from disk.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}

// RemoveBackground loads src (a data URI or an http(s) URL), clears its
// corner-connected background and returns the result as a
// "data:image/png;base64," URI. It blocks only while the source loads.
// File paths are rejected with ErrDecode; use RemoveBackgroundFile for
// local files.
func RemoveBackground(ctx context.Context, src string, opts Options) (string, error) {
	img, err := imaging.Acquire(ctx, src, imaging.AcquireOptions{Client: opts.HTTPClient})
	if err != nil {
		return "", err
	}

	out, _, err := RemoveBackgroundImage(img, opts)
	if err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(out)
	if err != nil {
		return "", err
	}
	return datauri.Encode("image/png", data), nil
}

// RemoveBackgroundImage runs the flood fill on a copy of img. img is never
// modified; the returned image has the same dimensions with a zero origin.
func RemoveBackgroundImage(img image.Image, opts Options) (*image.NRGBA, Stats, error) {
	if img == nil {
		return nil, Stats{}, fmt.Errorf("%w: input image is nil", ErrSurface)
	}
	buf, err := imaging.Surface(img, opts.MaxPixels)
	if err != nil {
		return nil, Stats{}, err
	}

	target := color.RGBA{
		R: opts.TargetColor.R,
		G: opts.TargetColor.G,
		B: opts.TargetColor.B,
		A: opts.TargetColor.A,
	}
	res := floodfill.Fill(buf, target, opts.Tolerance)

	return buf, Stats{
		Width:   buf.Bounds().Dx(),
		Height:  buf.Bounds().Dy(),
		Visited: res.Visited,
		Cleared: res.Cleared,
	}, nil
}

// RemoveBackgroundFile is a convenience that loads an image from inPath,
// removes its background, and saves the result as PNG to outPath.
func RemoveBackgroundFile(inPath, outPath string, opts Options) error {
	img, err := LoadImage(inPath)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	result, _, err := RemoveBackgroundImage(img, opts)
	if err != nil {
		return fmt.Errorf("removing background: %w", err)
	}

	if err := SavePNG(outPath, result); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	return nil
}
