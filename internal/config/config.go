// Package config loads tool settings from the environment.
//
// A .env file in the working directory is loaded first when present, then
// individual variables override it. Command-line flags override everything;
// the precedence wiring lives in cmd/ocr-extract.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the extractor.
type Config struct {
	// Recognition
	Lang              string  // OCR_LANG
	DetectOrientation bool    // OCR_DETECT_ORIENTATION
	MinConfidence     float64 // OCR_MIN_CONFIDENCE

	// Preprocessing
	ImgMaxW      int  // OCR_IMG_MAX_W, 0 disables the width cap
	ImgGrayscale bool // OCR_IMG_GRAYSCALE
	ImgBinarize  bool // OCR_IMG_BINARIZE

	// Output
	OutputDir  string // OCR_OUTPUT_DIR
	ShowLabels bool   // OCR_VIS_LABELS

	// Batch
	Parallelism int // OCR_PARALLELISM, workers for directory mode
}

// Load reads configuration from .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Lang:              Get("OCR_LANG", "eng"),
		DetectOrientation: parseBool(Get("OCR_DETECT_ORIENTATION", "false")),
		MinConfidence:     parseFloat(Get("OCR_MIN_CONFIDENCE", "0")),
		ImgMaxW:           atoi(Get("OCR_IMG_MAX_W", "0")),
		ImgGrayscale:      parseBool(Get("OCR_IMG_GRAYSCALE", "false")),
		ImgBinarize:       parseBool(Get("OCR_IMG_BINARIZE", "false")),
		OutputDir:         Get("OCR_OUTPUT_DIR", "ocr_output"),
		ShowLabels:        parseBool(Get("OCR_VIS_LABELS", "true")),
		Parallelism:       atoi(Get("OCR_PARALLELISM", "2")),
	}
}

// Get returns the environment variable k, or d when unset or empty.
func Get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func atoi(s string) int           { i, _ := strconv.Atoi(s); return i }
func parseBool(s string) bool     { b, _ := strconv.ParseBool(s); return b }
func parseFloat(s string) float64 { f, _ := strconv.ParseFloat(s, 64); return f }
