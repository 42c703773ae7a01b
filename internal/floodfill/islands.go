package floodfill

import (
	"image"

	"github.com/maax3v3/diecut/internal/color"
)

// CountIslands counts the 4-connected regions of pixels that match target
// and are still opaque. After Fill these are exactly the interior details
// it preserved (the white of an eye, a highlight).
//
// Only a visited mask and one reusable index queue are allocated.
func CountIslands(buf *image.NRGBA, target color.RGBA, tolerance int) int {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return 0
	}
	seen := make([]bool, w*h)

	candidate := func(x, y int) bool {
		off := y*buf.Stride + x*4
		if buf.Pix[off+3] == 0 {
			return false
		}
		px := color.RGBA{R: buf.Pix[off], G: buf.Pix[off+1], B: buf.Pix[off+2]}
		return color.Matches(px, target, tolerance)
	}

	count := 0
	var queue []int
	dirs := [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if seen[idx] || !candidate(x, y) {
				continue
			}
			// BFS flood-fill
			seen[idx] = true
			queue = append(queue[:0], idx)
			for head := 0; head < len(queue); head++ {
				px, py := queue[head]%w, queue[head]/w
				for _, d := range dirs {
					nx, ny := px+d.X, py+d.Y
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if seen[ni] || !candidate(nx, ny) {
						continue
					}
					seen[ni] = true
					queue = append(queue, ni)
				}
			}
			count++
		}
	}

	return count
}
