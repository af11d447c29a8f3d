// Package imaging provides input loading, recognition preprocessing, and
// result visualization for the screenshot text extractor.
//
// Three concerns live here:
//
//   - Loading: ImageCache decodes PNG/JPEG/GIF files once and serves the
//     decoded image to every stage that needs it.
//   - Preprocessing: PrepareForOCR resizes, grayscales, and optionally
//     binarizes an image before it is handed to the OCR engine, and
//     WriteTemp bridges decoded images back to the file paths Tesseract
//     requires.
//   - Visualization: Annotate draws recognized-text rectangles and labels
//     over the input, and SaveVisualization persists the result under the
//     output directory with a collision-free filename.
//
// # Coordinate system
//
// All pixel coordinates are 0-based with the origin at the top-left corner;
// X grows rightward and Y grows downward. Rectangles follow image.Rectangle
// semantics: Min inclusive, Max exclusive.
//
// # Thread safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and never mutate their input images.
package imaging
