// Package terminal turns page images into terminal graphics escapes.
package terminal

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/draw"
	"os"
	"strings"

	"github.com/BourgeoisBear/rasterm"

	"github.com/justyntemme/comics-t/pkg/models"
)

// TermImageMode is the graphics protocol pages are drawn with
type TermImageMode int

const (
	TermModeNone TermImageMode = iota
	TermModeKitty
	TermModeIterm
	TermModeSixel
)

// PageImageID is the Kitty image id reused for the page on screen, so each
// redraw replaces the previous page instead of stacking images
const PageImageID uint32 = 1989

var modeNames = map[string]TermImageMode{
	"kitty":  TermModeKitty,
	"iterm":  TermModeIterm,
	"iterm2": TermModeIterm,
	"sixel":  TermModeSixel,
	"none":   TermModeNone,
}

func (m TermImageMode) String() string {
	switch m {
	case TermModeKitty:
		return "Kitty"
	case TermModeIterm:
		return "iTerm2"
	case TermModeSixel:
		return "Sixel"
	default:
		return "None"
	}
}

// ParseMode maps the -images flag to a mode. "auto" and "" probe the terminal.
func ParseMode(name string) (TermImageMode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return Detect(), true
	}
	m, ok := modeNames[name]
	return m, ok
}

// Detect probes the terminal, preferring Kitty, then iTerm2, then Sixel
func Detect() TermImageMode {
	switch {
	case rasterm.IsKittyCapable():
		return TermModeKitty
	case rasterm.IsItermCapable():
		return TermModeIterm
	}
	if ok, _ := rasterm.IsSixelCapable(); ok {
		return TermModeSixel
	}
	return TermModeNone
}

// Frame places a page inside the cols x rows cell area below the header
type Frame struct {
	Fit        models.FitMode
	Zoom       int
	Cols, Rows int
	PanX, PanY float64
}

// RenderPage scales img for the frame, crops the visible window and encodes
// it for mode. TermModeNone renders nothing.
func RenderPage(img image.Image, f Frame, mode TermImageMode) (string, error) {
	if mode == TermModeNone {
		return "", nil
	}
	scaled := Scale(img, f.Fit, f.Zoom, f.Cols, f.Rows)
	visible := Crop(scaled, f.Cols, f.Rows, f.PanX, f.PanY)
	return encode(visible, mode)
}

// encode writes img into a string rather than stdout so bubbletea owns output
func encode(img image.Image, mode TermImageMode) (string, error) {
	var buf bytes.Buffer
	var err error
	switch mode {
	case TermModeKitty:
		err = rasterm.KittyWriteImage(&buf, img, rasterm.KittyImgOpts{ImageId: PageImageID})
	case TermModeIterm:
		err = rasterm.ItermWriteImage(&buf, img)
	case TermModeSixel:
		err = rasterm.SixelWriteImage(&buf, toPaletted(img))
	default:
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toPaletted reduces img to the Plan 9 palette; Sixel needs indexed colour
func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}

// clearSequence removes drawn pages. Kitty can delete its images; iTerm2 and
// Sixel images live in the text buffer and go with a screen clear.
func clearSequence(mode TermImageMode) string {
	switch mode {
	case TermModeKitty:
		return "\x1b_Ga=d,d=A\x1b\\"
	case TermModeIterm, TermModeSixel:
		return "\x1b[2J\x1b[H"
	}
	return ""
}

// WriteClearImages clears the page from the screen when the reader goes away
func WriteClearImages(mode TermImageMode) {
	if seq := clearSequence(mode); seq != "" {
		os.Stdout.WriteString(seq)
	}
}
