package components

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg" // decoders for provider output
	_ "image/png"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/visiq/internal/imagegen"
	"github.com/abhisek/visiq/internal/ui/theme"
)

// ImageView renders a picture as ANSI art using upper half blocks: each
// terminal cell shows two vertically stacked pixels.
type ImageView struct {
	img image.Image
	err error

	cacheW, cacheH int
	cache          string
}

// NewImageView decodes a data URL. Decoding errors are kept and rendered as
// a placeholder instead of failing the screen.
func NewImageView(dataURL string) *ImageView {
	v := &ImageView{}
	decoded, err := imagegen.ParseDataURL(dataURL)
	if err != nil {
		v.err = err
		return v
	}
	v.img, _, v.err = image.Decode(bytes.NewReader(decoded.Data))
	return v
}

// Err returns the decoding error, if any.
func (v *ImageView) Err() error { return v.err }

// View renders the image to fit within maxW columns and maxH rows while
// keeping its aspect ratio. Output is cached per size.
func (v *ImageView) View(maxW, maxH int) string {
	if maxW <= 0 || maxH <= 0 {
		return ""
	}
	if v.err != nil || v.img == nil {
		return theme.Hint.Render("[visual unavailable]")
	}
	if v.cache != "" && v.cacheW == maxW && v.cacheH == maxH {
		return v.cache
	}

	cols, rows := fitCells(v.img.Bounds(), maxW, maxH)
	v.cache = renderHalfBlocks(v.img, cols, rows)
	v.cacheW, v.cacheH = maxW, maxH
	return v.cache
}

// fitCells returns the largest cols x rows cell grid, with two pixels per
// row, that preserves the aspect ratio of b.
func fitCells(b image.Rectangle, maxW, maxH int) (int, int) {
	iw, ih := b.Dx(), b.Dy()
	if iw == 0 || ih == 0 {
		return 0, 0
	}
	cols := maxW
	rows := (cols*ih/iw + 1) / 2
	if rows > maxH {
		rows = maxH
		cols = max(rows*2*iw/ih, 1)
	}
	return cols, max(rows, 1)
}

func renderHalfBlocks(img image.Image, cols, rows int) string {
	b := img.Bounds()
	sample := func(x, y int) color.Color {
		sx := b.Min.X + x*b.Dx()/cols
		sy := b.Min.Y + y*b.Dy()/(rows*2)
		return img.At(sx, sy)
	}

	var sb strings.Builder
	for y := range rows {
		for x := range cols {
			cell := lipgloss.NewStyle().
				Foreground(sample(x, 2*y)).
				Background(sample(x, 2*y+1))
			sb.WriteString(cell.Render("▀"))
		}
		if y < rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
