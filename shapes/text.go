package shapes

import (
	"image"
	"math/rand"
)

// TextParams holds the text-to-point-cloud pipeline settings. Extraction is
// pure bitmap math; only rasterization touches the font stack.
type TextParams struct {
	// ImageSize is the square raster resolution in pixels.
	ImageSize int `yaml:"image_size"`
	// FontSize is the glyph size in points at 72 DPI.
	FontSize float64 `yaml:"font_size"`
	// Stride samples every Nth pixel on each axis.
	Stride int `yaml:"stride"`
	// Threshold is the brightness a pixel must exceed to become a point.
	Threshold uint8 `yaml:"threshold"`
	// WorldExtent is the half-width of the square the bitmap maps onto:
	// x and y land in [-WorldExtent, WorldExtent].
	WorldExtent float32 `yaml:"world_extent"`
	// DepthJitter is the symmetric random offset on the depth axis that
	// gives flat glyphs volumetric thickness.
	DepthJitter float32 `yaml:"depth_jitter"`
}

// DefaultTextParams returns the stock text pipeline settings.
func DefaultTextParams() TextParams {
	return TextParams{
		ImageSize:   160,
		FontSize:    96,
		Stride:      2,
		Threshold:   128,
		WorldExtent: 5.0,
		DepthJitter: 0.5,
	}
}

// Rasterizer produces a monochrome bitmap for a string. Implementations may
// fail (missing glyphs, broken font data); the caller falls back to origin
// points.
type Rasterizer interface {
	Rasterize(text string) (*image.Gray, error)
}

// sampleText fills out with points extracted from the rasterized string,
// resampled to the full particle count. Any failure along the way leaves the
// zero value: all points at the origin.
func (g *Generator) sampleText(out []float32, text string, rng *rand.Rand) {
	if g.raster == nil || text == "" {
		return
	}
	img, err := g.raster.Rasterize(text)
	if err != nil || img == nil {
		return
	}
	pts := extractPoints(img, g.params.Text)
	if len(pts) == 0 {
		return
	}
	resamplePoints(out, pts, g.params.Text.DepthJitter, rng)
}

// extractPoints scans the bitmap at the configured stride and collects world
// coordinates for every pixel above the brightness threshold. Bitmap rows
// grow downward, so y is flipped into the world's up axis.
func extractPoints(img *image.Gray, p TextParams) [][2]float32 {
	stride := p.Stride
	if stride < 1 {
		stride = 1
	}
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	span := 2 * p.WorldExtent

	var pts [][2]float32
	for py := bounds.Min.Y; py < bounds.Max.Y; py += stride {
		for px := bounds.Min.X; px < bounds.Max.X; px += stride {
			if img.GrayAt(px, py).Y <= p.Threshold {
				continue
			}
			wx := (float32(px-bounds.Min.X)/float32(w))*span - p.WorldExtent
			wy := -((float32(py-bounds.Min.Y)/float32(h))*span - p.WorldExtent)
			pts = append(pts, [2]float32{wx, wy})
		}
	}
	return pts
}

// resamplePoints repeats the extracted set with modulo wraparound until the
// output is full, adding independent depth jitter per particle.
func resamplePoints(out []float32, pts [][2]float32, depthJitter float32, rng *rand.Rand) {
	for i := 0; i < len(out)/3; i++ {
		src := pts[i%len(pts)]
		j := 3 * i
		out[j] = src[0]
		out[j+1] = src[1]
		out[j+2] = symmetric(rng, depthJitter)
	}
}
