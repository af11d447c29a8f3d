package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Make sure ambient environment doesn't leak into the assertions.
	for _, k := range []string{
		"OCR_LANG", "OCR_DETECT_ORIENTATION", "OCR_MIN_CONFIDENCE",
		"OCR_IMG_MAX_W", "OCR_IMG_GRAYSCALE", "OCR_IMG_BINARIZE",
		"OCR_OUTPUT_DIR", "OCR_VIS_LABELS", "OCR_PARALLELISM",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Lang != "eng" {
		t.Errorf("Lang: got %q, want eng", cfg.Lang)
	}
	if cfg.DetectOrientation {
		t.Error("DetectOrientation should default to false")
	}
	if cfg.OutputDir != "ocr_output" {
		t.Errorf("OutputDir: got %q, want ocr_output", cfg.OutputDir)
	}
	if !cfg.ShowLabels {
		t.Error("ShowLabels should default to true")
	}
	if cfg.Parallelism != 2 {
		t.Errorf("Parallelism: got %d, want 2", cfg.Parallelism)
	}
	if cfg.ImgMaxW != 0 {
		t.Errorf("ImgMaxW: got %d, want 0", cfg.ImgMaxW)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OCR_LANG", "deu")
	t.Setenv("OCR_DETECT_ORIENTATION", "true")
	t.Setenv("OCR_MIN_CONFIDENCE", "0.75")
	t.Setenv("OCR_IMG_MAX_W", "1024")
	t.Setenv("OCR_IMG_GRAYSCALE", "true")
	t.Setenv("OCR_OUTPUT_DIR", "/tmp/vis")
	t.Setenv("OCR_PARALLELISM", "8")

	cfg := Load()

	if cfg.Lang != "deu" {
		t.Errorf("Lang: got %q, want deu", cfg.Lang)
	}
	if !cfg.DetectOrientation {
		t.Error("DetectOrientation not read")
	}
	if cfg.MinConfidence != 0.75 {
		t.Errorf("MinConfidence: got %f, want 0.75", cfg.MinConfidence)
	}
	if cfg.ImgMaxW != 1024 {
		t.Errorf("ImgMaxW: got %d, want 1024", cfg.ImgMaxW)
	}
	if !cfg.ImgGrayscale {
		t.Error("ImgGrayscale not read")
	}
	if cfg.OutputDir != "/tmp/vis" {
		t.Errorf("OutputDir: got %q, want /tmp/vis", cfg.OutputDir)
	}
	if cfg.Parallelism != 8 {
		t.Errorf("Parallelism: got %d, want 8", cfg.Parallelism)
	}
}

func TestLoad_MalformedValues(t *testing.T) {
	// Unparseable numbers and booleans fall back to their zero values
	// rather than failing.
	t.Setenv("OCR_MIN_CONFIDENCE", "not-a-number")
	t.Setenv("OCR_IMG_MAX_W", "wide")
	t.Setenv("OCR_IMG_GRAYSCALE", "maybe")

	cfg := Load()

	if cfg.MinConfidence != 0 {
		t.Errorf("MinConfidence: got %f, want 0", cfg.MinConfidence)
	}
	if cfg.ImgMaxW != 0 {
		t.Errorf("ImgMaxW: got %d, want 0", cfg.ImgMaxW)
	}
	if cfg.ImgGrayscale {
		t.Error("ImgGrayscale should be false for malformed input")
	}
}

func TestGet(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "value")

	if got := Get("CONFIG_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("got %q, want value", got)
	}
	if got := Get("CONFIG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}

	t.Setenv("CONFIG_TEST_EMPTY", "")
	if got := Get("CONFIG_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("empty value: got %q, want fallback", got)
	}
}
