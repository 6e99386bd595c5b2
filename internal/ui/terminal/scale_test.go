package terminal

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/comics-t/pkg/models"
)

func page(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestScale_FitModes(t *testing.T) {
	// Box is 80x20 cells = 640x320 px; page is 400x800
	src := page(400, 800)

	cases := []struct {
		name  string
		fit   models.FitMode
		zoom  int
		wantW int
		wantH int
	}{
		{"width", models.FitWidth, 100, 640, 1280},
		{"height", models.FitHeight, 100, 160, 320},
		{"page picks the tighter side", models.FitPage, 100, 160, 320},
		{"zoom scales the fit", models.FitHeight, 200, 320, 640},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Scale(src, tc.fit, tc.zoom, 80, 20).Bounds()
			assert.Equal(t, tc.wantW, got.Dx())
			assert.Equal(t, tc.wantH, got.Dy())
		})
	}
}

func TestScale_EmptyBoxIsNoop(t *testing.T) {
	src := page(10, 10)
	assert.Same(t, src, Scale(src, models.FitWidth, 100, 0, 0))
}

func TestCrop(t *testing.T) {
	src := page(1000, 1000)

	// 10x10 cells = 80x160 px window
	top := Crop(src, 10, 10, 0.5, 0).Bounds()
	assert.Equal(t, image.Rect(460, 0, 540, 160), top)

	bottom := Crop(src, 10, 10, 1, 1).Bounds()
	assert.Equal(t, image.Rect(920, 840, 1000, 1000), bottom)

	small := page(40, 40)
	assert.Same(t, small, Crop(small, 10, 10, 0.5, 0.5))
}
