package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/maax3v3/diecut/internal/cli"
	"github.com/maax3v3/diecut/internal/floodfill"
	"github.com/maax3v3/diecut/internal/imaging"
)

// Run executes the full diecut pipeline with the given configuration,
// writing progress to w.
func Run(ctx context.Context, cfg cli.Config, w io.Writer) error {
	// Step 1: Load input image
	fmt.Fprintf(w, "Loading image: %s\n", describe(cfg.In))
	img, err := imaging.Acquire(ctx, cfg.In, imaging.AcquireOptions{AllowFiles: true})
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	fmt.Fprintf(w, "Image loaded: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())

	// Step 2: Copy into a pixel buffer
	buf, err := imaging.Surface(img, cfg.MaxPixels)
	if err != nil {
		return fmt.Errorf("preparing pixels: %w", err)
	}

	// Step 3: Flood-fill the background from the corners
	fmt.Fprintf(w, "Removing background (target=%s, tolerance=%d)...\n", cfg.Target.Hex(), cfg.Tolerance)
	res := floodfill.Fill(buf, cfg.Target, cfg.Tolerance)
	total := buf.Bounds().Dx() * buf.Bounds().Dy()
	fmt.Fprintf(w, "Transparent pixels: %d / %d (%.1f%%)\n",
		res.Cleared, total, float64(res.Cleared)/float64(total)*100)
	fmt.Fprintf(w, "Interior details preserved: %d\n", floodfill.CountIslands(buf, cfg.Target, cfg.Tolerance))

	// Step 4: Save output
	fmt.Fprintf(w, "Saving output: %s\n", cfg.Out)
	if err := imaging.SavePNG(cfg.Out, buf); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	fmt.Fprintln(w, "Done!")
	return nil
}

// describe shortens data URIs for progress output.
func describe(ref string) string {
	const maxLen = 48
	if len(ref) <= maxLen {
		return ref
	}
	return ref[:maxLen] + "..."
}
