package imaging

import (
	"image"
	"image/color"
	"os"
	"testing"
)

func createInMemoryImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPrepareForOCR_NoOptions(t *testing.T) {
	src := createInMemoryImage(100, 50, color.RGBA{200, 100, 50, 255})

	out := PrepareForOCR(src, PrepOptions{})

	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("dimensions changed: got %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	r, g, bl, _ := out.At(10, 10).RGBA()
	if uint8(r>>8) != 200 || uint8(g>>8) != 100 || uint8(bl>>8) != 50 {
		t.Errorf("pixels changed without preprocessing: got (%d,%d,%d)", r>>8, g>>8, bl>>8)
	}
}

func TestPrepareForOCR_MaxWidth(t *testing.T) {
	tests := []struct {
		name      string
		srcWidth  int
		maxWidth  int
		wantWidth int
	}{
		{"wider than cap", 200, 100, 100},
		{"narrower than cap", 80, 100, 80},
		{"equal to cap", 100, 100, 100},
		{"cap disabled", 200, 0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createInMemoryImage(tt.srcWidth, 100, color.RGBA{128, 128, 128, 255})
			out := PrepareForOCR(src, PrepOptions{MaxWidth: tt.maxWidth})
			if got := out.Bounds().Dx(); got != tt.wantWidth {
				t.Errorf("width: got %d, want %d", got, tt.wantWidth)
			}
		})
	}
}

func TestPrepareForOCR_MaxWidth_KeepsAspectRatio(t *testing.T) {
	src := createInMemoryImage(200, 100, color.RGBA{128, 128, 128, 255})

	out := PrepareForOCR(src, PrepOptions{MaxWidth: 100})

	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestPrepareForOCR_Grayscale(t *testing.T) {
	src := createInMemoryImage(20, 20, color.RGBA{255, 0, 0, 255})

	out := PrepareForOCR(src, PrepOptions{Grayscale: true})

	r, g, b, _ := out.At(5, 5).RGBA()
	if r != g || g != b {
		t.Errorf("grayscale output has diverging channels: (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestPrepareForOCR_Binarize(t *testing.T) {
	// Left half dark, right half light.
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				src.SetRGBA(x, y, color.RGBA{30, 30, 30, 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{220, 220, 220, 255})
			}
		}
	}

	out := PrepareForOCR(src, PrepOptions{Binarize: true})

	for _, p := range []image.Point{{2, 10}, {17, 10}} {
		r, g, b, _ := out.At(p.X, p.Y).RGBA()
		v := uint8(r >> 8)
		if v != 0 && v != 255 {
			t.Errorf("pixel (%d,%d) not binary: %d", p.X, p.Y, v)
		}
		if r != g || g != b {
			t.Errorf("pixel (%d,%d) not grayscale", p.X, p.Y)
		}
	}

	dr, _, _, _ := out.At(2, 10).RGBA()
	lr, _, _, _ := out.At(17, 10).RGBA()
	if dr >= lr {
		t.Error("dark pixel should threshold below light pixel")
	}
}

func TestPrepareForOCR_FlattensAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	// Fully transparent image.
	out := PrepareForOCR(src, PrepOptions{Grayscale: true})

	r, _, _, a := out.At(5, 5).RGBA()
	if uint8(a>>8) != 255 {
		t.Errorf("alpha not flattened: %d", a>>8)
	}
	if uint8(r>>8) != 255 {
		t.Errorf("transparent pixel should flatten to white, got %d", r>>8)
	}
}

func TestWriteTemp(t *testing.T) {
	src := createInMemoryImage(30, 30, color.RGBA{0, 255, 0, 255})

	path, err := WriteTemp(src, "prep-test")
	if err != nil {
		t.Fatalf("WriteTemp failed: %v", err)
	}
	defer os.Remove(path)

	// The file must decode back to an image of the same size.
	img, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("failed to load temp file: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 30 {
		t.Errorf("round-trip dimensions: got %dx%d, want 30x30",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}
