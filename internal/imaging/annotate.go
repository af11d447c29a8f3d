package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation is one rectangle to draw over the source image, with an
// optional label rendered at its top-left corner.
type Annotation struct {
	Rect  image.Rectangle
	Label string
}

// AnnotateOptions controls visualization rendering.
type AnnotateOptions struct {
	// LineWidth is the rectangle border thickness in pixels. Zero means 2.
	LineWidth int

	// ShowLabels renders each annotation's label in a filled badge at the
	// rectangle's top-left corner.
	ShowLabels bool
}

// goldenAngle spaces consecutive hues so neighboring boxes never share a
// similar color regardless of how many annotations there are.
const goldenAngle = 137.5

// Annotate draws the annotations over a copy of the source image.
//
// Each annotation gets its own hue, generated in HSV with golden-angle
// spacing. Rectangles are clipped to the image bounds; the source image is
// never modified.
func Annotate(src image.Image, anns []Annotation, opts AnnotateOptions) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = 2
	}

	for i, ann := range anns {
		c := annotationColor(i)
		rect := ann.Rect.Intersect(bounds)
		if rect.Empty() {
			continue
		}

		drawRect(dst, rect, c, lineWidth)

		if opts.ShowLabels && ann.Label != "" {
			drawBadge(dst, rect.Min.X, rect.Min.Y, ann.Label, c)
		}
	}

	return dst
}

// SaveVisualization writes an annotated image into dir as a PNG.
//
// The directory is created if absent. The filename is derived from the input
// image's stem plus a short unique id, e.g. "screenshot_ocr_3f2a9c41.png", so
// repeated runs never overwrite earlier output.
func SaveVisualization(img image.Image, dir, stem string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_ocr_%s.png", stem, uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save visualization: %w", err)
	}

	return path, nil
}

// annotationColor returns a saturated, readable color for annotation i.
func annotationColor(i int) color.RGBA {
	hue := float64(i) * goldenAngle
	for hue >= 360 {
		hue -= 360
	}
	r, g, b := colorful.Hsv(hue, 0.85, 0.90).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// drawRect draws a rectangle border of the given thickness, growing inward.
func drawRect(img *image.RGBA, rect image.Rectangle, c color.RGBA, width int) {
	for w := 0; w < width; w++ {
		r := rect.Inset(w)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, r.Min.Y, c)
			img.SetRGBA(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetRGBA(r.Min.X, y, c)
			img.SetRGBA(r.Max.X-1, y, c)
		}
	}
}

// badge metrics for basicfont.Face7x13.
const (
	badgeCharWidth = 7
	badgeHeight    = 14
	badgePadding   = 2
)

// drawBadge renders text in a filled box anchored above-left of (x, y),
// falling inside the rectangle when there is no room above it.
func drawBadge(img *image.RGBA, x, y int, text string, bg color.RGBA) {
	bounds := img.Bounds()

	top := y - badgeHeight
	if top < bounds.Min.Y {
		top = y
	}

	w := len(text)*badgeCharWidth + 2*badgePadding
	badge := image.Rect(x, top, x+w, top+badgeHeight).Intersect(bounds)
	if badge.Empty() {
		return
	}
	draw.Draw(img, badge, image.NewUniform(bg), image.Point{}, draw.Src)

	// Face7x13 has an 11px ascent.
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor(bg)),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x + badgePadding), Y: fixed.I(top + 11)},
	}
	d.DrawString(text)
}

// labelColor picks black or white text for contrast against the badge fill.
func labelColor(bg color.RGBA) color.Color {
	c := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	_, _, l := c.Hcl()
	if l > 0.6 {
		return color.Black
	}
	return color.White
}
