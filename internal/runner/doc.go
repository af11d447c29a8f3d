// Package runner orchestrates the extraction pipeline.
//
// A Runner takes an image path through a fixed, linear sequence:
//
//	load → preprocess → recognize → group lines → print text → save visualization
//
// Recognized text goes to the runner's Out writer (stdout in the CLI);
// progress and diagnostics go to the structured logger on stderr. The
// visualization (the input image with recognized line rectangles drawn over
// it) lands in the configured output directory, which is created on demand.
//
// # Modes
//
//   - Run: one image, text printed immediately.
//   - RunAll: every image in a directory, processed in parallel, text
//     printed in filename order with "---" separators between images that
//     produced text.
//   - RunDetect: text block locations only, no recognition.
//
// # Failure model
//
// There is no retry or recovery. A missing input file, an undecodable
// image, an engine failure, or an unwritable output directory each abort
// the run with a wrapped error; the CLI exits nonzero. Recognizing no text
// is not a failure: a warning is logged and the visualization is still
// written.
package runner
