package terminal

import (
	"image"
	"math"

	"github.com/nfnt/resize"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Approximate pixel size of one terminal cell. Terminals do not report it
// reliably, so page sizes are planned with these.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Scale resizes img for a box of cols x rows cells under the given fit mode
// and zoom percentage. The result may be larger than the box when zoomed.
func Scale(img image.Image, fit models.FitMode, zoom, cols, rows int) image.Image {
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw == 0 || ih == 0 || cols <= 0 || rows <= 0 {
		return img
	}

	boxW := float64(cols * CellWidth)
	boxH := float64(rows * CellHeight)
	sx := boxW / float64(iw)
	sy := boxH / float64(ih)

	var s float64
	switch fit {
	case models.FitHeight:
		s = sy
	case models.FitPage:
		s = min(sx, sy)
	default:
		s = sx
	}
	if zoom > 0 {
		s *= float64(zoom) / 100
	}

	w := uint(max(1, int(math.Round(float64(iw)*s))))
	h := uint(max(1, int(math.Round(float64(ih)*s))))
	if int(w) == iw && int(h) == ih {
		return img
	}
	return resize.Resize(w, h, img, resize.Bilinear)
}

// Crop returns the cols x rows cell window of img positioned by pan, where
// 0 is the left/top edge and 1 the right/bottom edge. Images that already
// fit are returned unchanged.
func Crop(img image.Image, cols, rows int, panX, panY float64) image.Image {
	b := img.Bounds()
	maxW, maxH := cols*CellWidth, rows*CellHeight
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}

	viewW, viewH := min(b.Dx(), maxW), min(b.Dy(), maxH)
	offX := int(clampUnit(panX) * float64(b.Dx()-viewW))
	offY := int(clampUnit(panY) * float64(b.Dy()-viewH))

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	si, ok := img.(subImager)
	if !ok {
		return img
	}
	return si.SubImage(image.Rect(
		b.Min.X+offX,
		b.Min.Y+offY,
		b.Min.X+offX+viewW,
		b.Min.Y+offY+viewH,
	))
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}
