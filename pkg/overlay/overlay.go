// Package overlay draws detection geometry onto display images. Frames and
// points arrive in content-native coordinates and are mapped through a
// viewport transform before drawing.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dkosev/vision-overlay/pkg/types"
	"github.com/dkosev/vision-overlay/pkg/viewport"
)

// Style holds colors and stroke parameters for overlay drawing
type Style struct {
	FrameColor  color.NRGBA
	LineColor   color.NRGBA
	PointColor  color.NRGBA
	Stroke      int
	PointRadius int
}

// DefaultStyle returns the default overlay style. A zero Stroke or
// PointRadius is sized relative to the canvas when drawing.
func DefaultStyle() Style {
	return Style{
		FrameColor:  color.NRGBA{0, 255, 0, 255},   // block/face frames
		LineColor:   color.NRGBA{255, 204, 0, 255}, // text line frames
		PointColor:  color.NRGBA{255, 0, 0, 255},   // contour points
		Stroke:      0,
		PointRadius: 0,
	}
}

// Renderer produces annotated copies of display images
type Renderer struct {
	style Style
}

// New creates a Renderer with the default style
func New() *Renderer {
	return &Renderer{style: DefaultStyle()}
}

// NewWithStyle creates a Renderer with a custom style
func NewWithStyle(style Style) *Renderer {
	return &Renderer{style: style}
}

// Canvas is a mutable annotated copy of a display image. All drawing
// methods map their input through the canvas transform first.
type Canvas struct {
	nrgba *image.NRGBA
	tr    viewport.Transform
	style Style
}

// Annotate clones the display image into a canvas that maps content-native
// geometry through tr before drawing.
func (r *Renderer) Annotate(img image.Image, tr viewport.Transform) *Canvas {
	nrgba := imaging.Clone(img)

	style := r.style
	minSide := minInt(nrgba.Bounds().Dx(), nrgba.Bounds().Dy())
	if style.Stroke <= 0 {
		style.Stroke = int(math.Max(2, 0.004*float64(minSide)))
	}
	if style.PointRadius <= 0 {
		style.PointRadius = int(math.Max(2, 0.006*float64(minSide)))
	}

	return &Canvas{nrgba: nrgba, tr: tr, style: style}
}

// Image returns the annotated image
func (c *Canvas) Image() image.Image {
	return c.nrgba
}

// DrawRect draws the outline of a content-native rectangle
func (c *Canvas) DrawRect(rect types.Rect, col color.NRGBA) {
	if rect.Empty() {
		return
	}
	drawBox(c.nrgba, c.tr.Rect(rect), col, c.style.Stroke)
}

// DrawPoint draws a filled square marker at a content-native point
func (c *Canvas) DrawPoint(p types.Point, col color.NRGBA) {
	mapped := c.tr.Point(p)
	r := c.style.PointRadius
	fillRect(c.nrgba, int(mapped.X+0.5)-r, int(mapped.Y+0.5)-r, 2*r, 2*r, col)
}

// DrawPoints draws markers for a slice of content-native points
func (c *Canvas) DrawPoints(points []types.Point, col color.NRGBA) {
	for _, p := range points {
		c.DrawPoint(p, col)
	}
}

// DrawTextBlocks draws block frames and their line frames
func (c *Canvas) DrawTextBlocks(blocks []types.TextBlock) {
	for _, block := range blocks {
		c.DrawRect(block.Frame, c.style.FrameColor)
		for _, line := range block.Lines {
			c.DrawRect(line.Frame, c.style.LineColor)
		}
	}
}

// DrawFaces draws face frames and their contour points
func (c *Canvas) DrawFaces(faces []types.Face) {
	for _, face := range faces {
		c.DrawRect(face.Frame, c.style.FrameColor)
		for _, contour := range face.Contours {
			c.DrawPoints(contour.Points, c.style.PointColor)
		}
	}
}

// DrawLabels draws a marker row for ranked labels along the top of the
// canvas, one tick per result, sized by confidence.
func (c *Canvas) DrawLabels(results []types.LabelScore) {
	w := c.nrgba.Bounds().Dx()
	for i, res := range results {
		barW := int(res.Confidence * float64(w) / 2)
		y := (i + 1) * 3 * c.style.Stroke
		fillRect(c.nrgba, 0, y, barW, c.style.Stroke, c.style.LineColor)
	}
}

// ParseHexColor parses a #rrggbb color string
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %v", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func drawBox(img *image.NRGBA, r types.Rect, col color.NRGBA, stroke int) {
	x0 := int(r.X + 0.5)
	y0 := int(r.Y + 0.5)
	x1 := int(r.X + r.W + 0.5)
	y1 := int(r.Y + r.H + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, col)
		drawHLine(img, y1-1-s, x0, x1, col)
		drawVLine(img, x0+s, y0, y1, col)
		drawVLine(img, x1-1-s, y0, y1, col)
	}
}

func fillRect(img *image.NRGBA, x, y, w, h int, col color.NRGBA) {
	for row := y; row < y+h; row++ {
		drawHLine(img, row, x, x+w, col)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
