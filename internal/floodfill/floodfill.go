// Package floodfill clears the background of die-cut sticker images.
//
// The background is the connected region of near-target pixels reachable
// from the four image corners. Pixels of the target color that are walled
// off by the subject (eyes, highlights) keep their alpha.
package floodfill

import (
	"image"

	"github.com/maax3v3/diecut/internal/color"
)

// DefaultTolerance is the per-channel distance below which a pixel counts
// as background.
const DefaultTolerance = 50

// Result summarizes one Fill run.
type Result struct {
	Visited int // pixels dequeued and tested
	Cleared int // pixels whose alpha was set to 0
}

// Corners returns the pixel indices of the four corners of a w×h grid in
// the order top-left, top-right, bottom-left, bottom-right. Duplicates
// (1-pixel-wide or tall images) are dropped.
func Corners(w, h int) []int {
	if w <= 0 || h <= 0 {
		return nil
	}
	all := [4]int{0, w - 1, (h - 1) * w, (h-1)*w + w - 1}
	out := make([]int, 0, 4)
	for _, idx := range all {
		dup := false
		for _, seen := range out {
			if seen == idx {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, idx)
		}
	}
	return out
}

// Fill runs a breadth-first flood fill over buf, seeded at the four
// corners, and sets the alpha of every reached pixel matching target
// (see color.Matches) to 0. Non-matching pixels stop propagation. Only
// the alpha bytes of buf are written.
func Fill(buf *image.NRGBA, target color.RGBA, tolerance int) Result {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	var res Result
	if w <= 0 || h <= 0 {
		return res
	}

	visited := make([]bool, w*h)
	queue := Corners(w, h)
	for _, idx := range queue {
		visited[idx] = true
	}

	dirs := [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := idx%w, idx/w
		off := y*buf.Stride + x*4
		res.Visited++

		px := color.RGBA{R: buf.Pix[off], G: buf.Pix[off+1], B: buf.Pix[off+2]}
		if !color.Matches(px, target, tolerance) {
			continue
		}
		buf.Pix[off+3] = 0
		res.Cleared++

		// 4-connected neighbors
		for _, d := range dirs {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if visited[ni] {
				continue
			}
			visited[ni] = true
			queue = append(queue, ni)
		}
	}

	return res
}
