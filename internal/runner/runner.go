package runner

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/onetapdevai/ocr-screen-extractor/internal/config"
	"github.com/onetapdevai/ocr-screen-extractor/internal/imaging"
	"github.com/onetapdevai/ocr-screen-extractor/internal/layout"
	"github.com/onetapdevai/ocr-screen-extractor/internal/ocr"
)

// Recognizer is the slice of the OCR engine the runner depends on.
// *ocr.Engine satisfies it; tests substitute fakes.
type Recognizer interface {
	Recognize(path string) (*ocr.Result, error)
	DetectRegions(path string, minConfidence float64) (*ocr.DetectResult, error)
}

// ResultSeparator divides the text of consecutive images in batch output.
const ResultSeparator = "---"

// RunResult summarizes one processed image.
type RunResult struct {
	ImagePath  string        `json:"image_path"`
	OutputPath string        `json:"output_path"`
	Text       string        `json:"text"`
	Lines      int           `json:"lines"`
	Words      int           `json:"words"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Runner wires the OCR engine, image handling, and output together.
//
// Recognized text is written to Out (stdout by default); everything else is
// logged. One Runner handles any number of images and is safe for the
// concurrent use RunAll makes of it.
type Runner struct {
	engine Recognizer
	cache  *imaging.ImageCache
	cfg    *config.Config
	log    zerolog.Logger

	// Out receives recognized text. Defaults to os.Stdout.
	Out io.Writer
}

// New creates a Runner using the given engine and configuration.
func New(engine Recognizer, cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{
		engine: engine,
		cache:  imaging.NewImageCache(),
		cfg:    cfg,
		log:    log,
		Out:    os.Stdout,
	}
}

// Run processes a single image: recognize, print the text, save the
// visualization. A missing or undecodable image is an error; an image with
// no recognizable text is not.
func (r *Runner) Run(ctx context.Context, imagePath string) (*RunResult, error) {
	res, err := r.process(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	r.print(res)
	return res, nil
}

// RunAll processes every PNG/JPEG image directly under dir (extensions
// matched case-insensitively), in parallel up to the configured worker
// count. Text is printed in filename order once all images finish, with a
// ResultSeparator line between consecutive non-empty results; images that
// recognized no text are logged and skipped in the separator accounting.
// The first failure cancels outstanding work and is returned after the
// group drains.
func (r *Runner) RunAll(ctx context.Context, dir string) ([]*RunResult, error) {
	paths, err := listImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}

	workers := r.cfg.Parallelism
	if workers <= 0 {
		workers = 1
	}

	results := make([]*RunResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := r.process(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			r.cache.Evict(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	printed := false
	for _, res := range results {
		if res.Text == "" {
			r.print(res)
			continue
		}
		if printed {
			fmt.Fprintln(r.Out, ResultSeparator)
		}
		r.print(res)
		printed = true
	}

	return results, nil
}

// RunDetect locates text blocks without recognizing them and saves a
// visualization of the merged block rectangles. The block count goes to Out.
func (r *Runner) RunDetect(ctx context.Context, imagePath string) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	img, info, err := r.loadInput(imagePath)
	if err != nil {
		return nil, err
	}

	detected, err := r.engine.DetectRegions(imagePath, r.cfg.MinConfidence)
	if err != nil {
		return nil, err
	}

	blocks := layout.MergeBlocks(detected.Regions)
	anns := make([]imaging.Annotation, len(blocks))
	for i, b := range blocks {
		anns[i] = imaging.Annotation{
			Rect:  image.Rect(b.X1, b.Y1, b.X2, b.Y2),
			Label: fmt.Sprintf("%d", i+1),
		}
	}

	outPath, err := r.saveVisualization(img, imagePath, anns)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(r.Out, "%d text region(s) detected\n", len(blocks))

	r.log.Info().
		Str("image", imagePath).
		Int("width", info.Width).
		Int("height", info.Height).
		Int("blocks", len(blocks)).
		Str("visualization", outPath).
		Dur("elapsed", time.Since(start)).
		Msg("detection complete")

	return &RunResult{
		ImagePath:  imagePath,
		OutputPath: outPath,
		Lines:      len(blocks),
		Elapsed:    time.Since(start),
	}, nil
}

// process runs the full pipeline for one image without printing, so batch
// mode can order its output after parallel execution.
func (r *Runner) process(ctx context.Context, imagePath string) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	img, info, err := r.loadInput(imagePath)
	if err != nil {
		return nil, err
	}

	ocrPath, cleanup, scaleX, scaleY, err := r.prepare(img, info, imagePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.engine.Recognize(ocrPath)
	if err != nil {
		return nil, err
	}

	regions := scaleRegions(result.Regions, scaleX, scaleY)
	lines := layout.GroupLines(regions)

	text := layout.Text(lines)
	if text == "" {
		// Box extraction can fail while plain text succeeds.
		text = squeezeBlankLines(result.FullText)
	}

	anns := make([]imaging.Annotation, len(lines))
	words := 0
	for i, line := range lines {
		words += len(line.Words)
		anns[i] = imaging.Annotation{
			Rect:  image.Rect(line.Bounds.X1, line.Bounds.Y1, line.Bounds.X2, line.Bounds.Y2),
			Label: fmt.Sprintf("%d", i+1),
		}
	}

	outPath, err := r.saveVisualization(img, imagePath, anns)
	if err != nil {
		return nil, err
	}

	res := &RunResult{
		ImagePath:  imagePath,
		OutputPath: outPath,
		Text:       text,
		Lines:      len(lines),
		Words:      words,
		Elapsed:    time.Since(start),
	}

	level := zerolog.InfoLevel
	if text == "" {
		level = zerolog.WarnLevel
	}
	r.log.WithLevel(level).
		Str("image", imagePath).
		Int("width", info.Width).
		Int("height", info.Height).
		Str("format", info.Format).
		Int("lines", res.Lines).
		Int("words", res.Words).
		Str("visualization", outPath).
		Dur("elapsed", res.Elapsed).
		Msg("recognition complete")

	return res, nil
}

// loadInput decodes the input image and reports its metadata.
func (r *Runner) loadInput(imagePath string) (image.Image, *imaging.ImageInfo, error) {
	info, err := imaging.LoadImageInfo(r.cache, imagePath)
	if err != nil {
		return nil, nil, err
	}
	img, err := r.cache.Load(imagePath)
	if err != nil {
		return nil, nil, err
	}
	return img, info, nil
}

// prepare applies preprocessing when configured and returns the path to hand
// to the engine, a cleanup func for any temp file, and the factors for
// scaling engine coordinates back to the original image.
func (r *Runner) prepare(img image.Image, info *imaging.ImageInfo, imagePath string) (string, func(), float64, float64, error) {
	opts := imaging.PrepOptions{
		MaxWidth:  r.cfg.ImgMaxW,
		Grayscale: r.cfg.ImgGrayscale,
		Binarize:  r.cfg.ImgBinarize,
	}
	if opts.MaxWidth <= 0 && !opts.Grayscale && !opts.Binarize {
		return imagePath, func() {}, 1, 1, nil
	}

	prepped := imaging.PrepareForOCR(img, opts)
	tmpPath, err := imaging.WriteTemp(prepped, "ocr-prep")
	if err != nil {
		return "", nil, 0, 0, err
	}

	pb := prepped.Bounds()
	scaleX := float64(info.Width) / float64(pb.Dx())
	scaleY := float64(info.Height) / float64(pb.Dy())

	return tmpPath, func() { os.Remove(tmpPath) }, scaleX, scaleY, nil
}

// saveVisualization renders the annotated image next to the recognized text.
func (r *Runner) saveVisualization(img image.Image, imagePath string, anns []imaging.Annotation) (string, error) {
	vis := imaging.Annotate(img, anns, imaging.AnnotateOptions{ShowLabels: r.cfg.ShowLabels})
	return imaging.SaveVisualization(vis, r.cfg.OutputDir, stem(imagePath))
}

// print writes the recognized text to Out, or logs when there is none.
func (r *Runner) print(res *RunResult) {
	if res.Text == "" {
		r.log.Warn().Str("image", res.ImagePath).Msg("no text recognized")
		return
	}
	fmt.Fprintln(r.Out, res.Text)
}

// scaleRegions maps engine coordinates back onto the original image after
// preprocessing resized it. Identity scaling returns the input unchanged.
func scaleRegions(regions []ocr.Region, sx, sy float64) []ocr.Region {
	if sx == 1 && sy == 1 {
		return regions
	}
	scaled := make([]ocr.Region, len(regions))
	for i, reg := range regions {
		scaled[i] = reg
		scaled[i].Bounds = ocr.Bounds{
			X1: int(float64(reg.Bounds.X1) * sx),
			Y1: int(float64(reg.Bounds.Y1) * sy),
			X2: int(float64(reg.Bounds.X2) * sx),
			Y2: int(float64(reg.Bounds.Y2) * sy),
		}
	}
	return scaled
}

// squeezeBlankLines drops empty lines from engine text, mirroring the
// meaningful-text filter applied to region output.
func squeezeBlankLines(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// listImages returns the PNG/JPEG files directly under dir, sorted by name.
// Extensions match regardless of case.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// stem returns the filename without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
