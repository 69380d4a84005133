package shapes

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontRasterizer renders strings into a square grayscale bitmap using the
// bundled Go Bold face. No asset files are required.
type FontRasterizer struct {
	face font.Face
	size int
}

// NewFontRasterizer parses the embedded bold font at the given pixel canvas
// size and point size.
func NewFontRasterizer(imageSize int, fontSize float64) (*FontRasterizer, error) {
	if imageSize <= 0 {
		return nil, fmt.Errorf("shapes: invalid raster size %d", imageSize)
	}
	ft, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("shapes: parsing bundled font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("shapes: creating font face: %w", err)
	}
	return &FontRasterizer{face: face, size: imageSize}, nil
}

// Rasterize draws the string centered on a black canvas with white glyphs.
func (r *FontRasterizer) Rasterize(text string) (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, r.size, r.size))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
	}

	adv := d.MeasureString(text)
	metrics := r.face.Metrics()

	// Center horizontally on advance width, vertically on cap height.
	x := (fixed.I(r.size) - adv) / 2
	y := (fixed.I(r.size) + metrics.Ascent - metrics.Descent) / 2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)

	return img, nil
}
