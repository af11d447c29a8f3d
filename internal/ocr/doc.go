// Package ocr wraps the Tesseract OCR engine (via gosseract/v2) for the
// screenshot text extractor.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Language data files are required for each language beyond English
// (tesseract-ocr-<lang> packages on Debian-family systems).
//
// # Fixed engine configuration
//
// The engine runs with document orientation and script detection disabled
// unless Options.DetectOrientation is set. Screen captures are upright by
// construction, and skipping OSD keeps recognition fast and avoids spurious
// rotations on sparse images.
//
// # Functions
//
//   - Engine.Recognize: full-image OCR, returns all text with word boxes
//   - Engine.DetectRegions: locate text blocks without recognizing them
//   - EngineInfo: probe Tesseract availability and version
//
// # Error handling
//
// Errors are returned for missing or unreadable image files, unknown
// language codes, and Tesseract failures. If word bounding box extraction
// fails, Recognize still returns the extracted text with an empty Regions
// slice.
package ocr
