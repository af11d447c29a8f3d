package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// PrepOptions controls recognition preprocessing.
//
// All steps are optional; the zero value passes the image through untouched.
type PrepOptions struct {
	// MaxWidth caps the image width in pixels; wider images are resized
	// proportionally with Lanczos resampling. Zero disables the cap.
	MaxWidth int

	// Grayscale converts the image to grayscale. Tesseract binarizes
	// internally, but dropping color first reduces noise from anti-aliased
	// screen fonts.
	Grayscale bool

	// Binarize thresholds the grayscale image to pure black and white.
	// Implies Grayscale.
	Binarize bool

	// ThresholdLevel is the Binarize cutoff (0-255). Zero means 128.
	ThresholdLevel uint8
}

// PrepareForOCR applies the configured preprocessing steps to an image.
//
// The pipeline is resize → grayscale → threshold, each step skipped when not
// requested. Alpha is flattened against white first so transparent screenshot
// margins don't binarize to black.
func PrepareForOCR(src image.Image, opts PrepOptions) image.Image {
	out := flattenAlpha(src)

	if opts.MaxWidth > 0 && out.Bounds().Dx() > opts.MaxWidth {
		out = imaging.Resize(out, opts.MaxWidth, 0, imaging.Lanczos)
	}

	if opts.Grayscale || opts.Binarize {
		out = effect.Grayscale(out)
	}

	if opts.Binarize {
		level := opts.ThresholdLevel
		if level == 0 {
			level = 128
		}
		out = segment.Threshold(out, level)
	}

	return out
}

// WriteTemp saves an image to a temporary PNG file and returns its path.
//
// Tesseract takes file paths, not decoded images, so preprocessed images pass
// through the filesystem. The caller must remove the file after use.
func WriteTemp(img image.Image, prefix string) (string, error) {
	tmpFile, err := os.CreateTemp("", prefix+"-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}

// flattenAlpha composites the image over a white background.
func flattenAlpha(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			if a == 0 {
				dst.SetRGBA(x, y, color.RGBA{0xff, 0xff, 0xff, 0xff})
			} else {
				dst.SetRGBA(x, y, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), 0xff})
			}
		}
	}
	return dst
}
