// Package overlay computes the geometry for drawing detected bounding boxes
// over a source image. Annotation boxes always live in original-image
// coordinates; everything here scales them for display and scales user edits
// back, as pure functions independent of any rendering surface.
package overlay

import (
	"image"
	"image/color"

	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/ocrflow"
)

// Scale returns the display scale for an image of the given natural width
// constrained to maxWidth: min(1, maxWidth/naturalWidth). Images narrower
// than the constraint are never upscaled.
func Scale(naturalWidth, maxWidth float64) float64 {
	if naturalWidth <= 0 || maxWidth <= 0 {
		return 1
	}
	s := maxWidth / naturalWidth
	if s > 1 {
		return 1
	}
	return s
}

// Box is an axis-aligned rectangle.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ToDisplay maps a box from original-image coordinates to display
// coordinates.
func ToDisplay(b Box, scale float64) Box {
	return Box{X: b.X * scale, Y: b.Y * scale, Width: b.Width * scale, Height: b.Height * scale}
}

// ToOriginal inverts ToDisplay, translating a user edit made in display
// coordinates back to the original image space.
func ToOriginal(b Box, scale float64) Box {
	if scale == 0 {
		return b
	}
	return Box{X: b.X / scale, Y: b.Y / scale, Width: b.Width / scale, Height: b.Height / scale}
}

// BoxLabel is one rectangle plus its character label, in display
// coordinates.
type BoxLabel struct {
	Box   Box
	Text  string
	ID    string
	Band  ocrflow.Band
}

// Plan is a complete description of one overlay render: the scaled canvas
// size and every rectangle to draw. A new Plan is built from scratch on
// every selection or filter change; there is no incremental patching.
type Plan struct {
	Scale  float64
	Width  int
	Height int
	Boxes  []BoxLabel
}

// DefaultSelected is the default selection predicate: detections in the
// high confidence band.
func DefaultSelected(d models.Detection) bool {
	return d.Confidence >= ocrflow.HighBandMin
}

// BuildPlan computes the overlay plan for the given detections, keeping
// only those the selected predicate admits.
func BuildPlan(naturalWidth, naturalHeight, maxWidth float64, detections []models.Detection, selected func(models.Detection) bool) Plan {
	if selected == nil {
		selected = DefaultSelected
	}

	scale := Scale(naturalWidth, maxWidth)
	plan := Plan{
		Scale:  scale,
		Width:  int(naturalWidth*scale + 0.5),
		Height: int(naturalHeight*scale + 0.5),
	}

	for _, d := range detections {
		if !selected(d) {
			continue
		}
		plan.Boxes = append(plan.Boxes, BoxLabel{
			Box:  ToDisplay(Box{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}, scale),
			Text: d.Text,
			ID:   d.ID,
			Band: ocrflow.BandFor(d.Confidence),
		})
	}
	return plan
}

var bandColors = map[ocrflow.Band]color.RGBA{
	ocrflow.BandHigh:   {R: 0x52, G: 0xc4, B: 0x1a, A: 0xff},
	ocrflow.BandMedium: {R: 0xfa, G: 0xad, B: 0x14, A: 0xff},
	ocrflow.BandLow:    {R: 0xf5, G: 0x22, B: 0x2d, A: 0xff},
}

// Render rasterizes a plan onto a fresh canvas: the base image redrawn at
// the plan scale, then a rectangle outline per selected detection.
func Render(src image.Image, plan Plan) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))

	// nearest-neighbor resample of the base image
	srcBounds := src.Bounds()
	for y := 0; y < plan.Height; y++ {
		for x := 0; x < plan.Width; x++ {
			sx := srcBounds.Min.X + int(float64(x)/plan.Scale)
			sy := srcBounds.Min.Y + int(float64(y)/plan.Scale)
			if sx >= srcBounds.Max.X {
				sx = srcBounds.Max.X - 1
			}
			if sy >= srcBounds.Max.Y {
				sy = srcBounds.Max.Y - 1
			}
			dst.Set(x, y, src.At(sx, sy))
		}
	}

	for _, bl := range plan.Boxes {
		drawRect(dst, bl.Box, bandColors[bl.Band])
	}
	return dst
}

func drawRect(dst *image.RGBA, b Box, c color.RGBA) {
	x0, y0 := int(b.X+0.5), int(b.Y+0.5)
	x1, y1 := int(b.X+b.Width+0.5), int(b.Y+b.Height+0.5)

	for x := x0; x <= x1; x++ {
		dst.Set(x, y0, c)
		dst.Set(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		dst.Set(x0, y, c)
		dst.Set(x1, y, c)
	}
}
