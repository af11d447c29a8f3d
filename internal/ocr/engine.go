package ocr

import (
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when Options.Language is empty.
const DefaultLanguage = "eng"

// Options configures the recognition engine.
//
// The zero value is usable: English, orientation detection off, no
// confidence filter. Orientation detection is disabled by default because
// screenshots are always upright; enabling it switches Tesseract to its
// auto-with-OSD page segmentation mode, which is slower and can misrotate
// sparse screen captures.
type Options struct {
	// Language is a Tesseract language code ("eng", "deu", "chi_sim", ...).
	// The matching traineddata must be installed. Empty means DefaultLanguage.
	Language string

	// DetectOrientation enables document orientation and script detection.
	// Off by default; see the type comment.
	DetectOrientation bool

	// MinConfidence drops recognized words below this confidence (0.0 to 1.0).
	// Zero keeps everything Tesseract returns.
	MinConfidence float64

	// Whitelist restricts recognition to the given characters when non-empty.
	// Useful for numeric-only captures.
	Whitelist string
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Dx returns the box width in pixels.
func (b Bounds) Dx() int { return b.X2 - b.X1 }

// Dy returns the box height in pixels.
func (b Bounds) Dy() int { return b.Y2 - b.Y1 }

// Region is one recognized word with its location and confidence.
type Region struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Bounds     Bounds  `json:"bounds"`
}

// Result contains the complete output of recognizing one image.
type Result struct {
	// FullText is all recognized text with Tesseract's original spacing
	// and newlines.
	FullText string `json:"full_text"`

	// Regions holds individual words with bounding boxes and confidence.
	// May be empty if box extraction fails; FullText is still populated.
	Regions []Region `json:"regions"`
}

// DetectResult contains text region locations without recognized content.
type DetectResult struct {
	Regions []Region `json:"regions"`
	Count   int      `json:"count"`
}

// Engine recognizes text in image files using Tesseract.
//
// An Engine is cheap to construct and holds no open resources; each call
// creates and closes its own gosseract client, so an Engine is safe for
// concurrent use.
type Engine struct {
	opts Options
}

// New returns an Engine with the given options.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Recognize performs OCR on the image at path.
//
// It returns the full recognized text plus word-level regions obtained at
// Tesseract's RIL_WORD iterator level. If word box extraction fails (some
// Tesseract builds cannot provide it), the text is still returned with an
// empty Regions slice rather than an error.
//
// Words below Options.MinConfidence are filtered from Regions; FullText is
// left as Tesseract produced it.
func (e *Engine) Recognize(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("image not readable: %w", err)
	}

	client, err := e.newClient(path)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Text without geometry is still a usable result.
		return &Result{FullText: text, Regions: []Region{}}, nil
	}

	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		confidence := float64(box.Confidence) / 100.0
		if confidence < e.opts.MinConfidence {
			continue
		}
		regions = append(regions, Region{
			Text:       box.Word,
			Confidence: confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{FullText: text, Regions: regions}, nil
}

// DetectRegions finds text block locations without full recognition.
//
// Uses Tesseract's RIL_BLOCK iterator level, which is faster than word-level
// recognition and yields paragraph-like regions. Blocks below minConfidence
// are excluded.
func (e *Engine) DetectRegions(path string, minConfidence float64) (*DetectResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("image not readable: %w", err)
	}

	client, err := e.newClient(path)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("region detection failed: %w", err)
	}

	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, Region{
			Confidence: confidence,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &DetectResult{Regions: regions, Count: len(regions)}, nil
}

// newClient builds a configured gosseract client with the image set.
// The caller owns the returned client and must Close it.
func (e *Engine) newClient(path string) (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(e.opts.language()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language %q: %w", e.opts.language(), err)
	}

	mode := gosseract.PSM_AUTO
	if e.opts.DetectOrientation {
		mode = gosseract.PSM_AUTO_OSD
	}
	if err := client.SetPageSegMode(mode); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if e.opts.Whitelist != "" {
		if err := client.SetWhitelist(e.opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	if err := client.SetImage(path); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return client, nil
}

// Version returns the linked Tesseract version string. An empty string
// means the library did not report one.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Info describes OCR availability on this system.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}

// EngineInfo probes the Tesseract installation. An empty version string
// from the library is treated as unavailable.
func EngineInfo() Info {
	version := Version()
	if version == "" {
		return Info{Available: false, Error: "tesseract reported no version", Backend: "gosseract"}
	}
	return Info{Available: true, Version: version, Backend: "gosseract"}
}
