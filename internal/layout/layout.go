// Package layout orders raw OCR word regions into lines and blocks.
//
// Tesseract returns word boxes in recognition order, which usually but not
// always matches reading order. This package regroups them geometrically:
// words whose boxes overlap vertically belong to one line, lines are sorted
// top to bottom, and words within a line left to right. The grouping only
// rearranges engine output; it performs no detection of its own.
package layout

import (
	"sort"
	"strings"

	"github.com/onetapdevai/ocr-screen-extractor/internal/ocr"
)

// minVerticalOverlap is the fraction of the shorter box's height that must
// overlap for two words to share a line. Half a glyph height tolerates
// ascenders, descenders, and slightly ragged baselines.
const minVerticalOverlap = 0.5

// Line is a left-to-right run of words sharing a baseline.
type Line struct {
	// Text is the line's words joined with single spaces.
	Text string `json:"text"`

	// Confidence is the mean confidence of the line's words (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the union of the word boxes.
	Bounds ocr.Bounds `json:"bounds"`

	// Words are the member regions in left-to-right order.
	Words []ocr.Region `json:"words"`
}

// GroupLines arranges word regions into reading-order lines.
//
// Words with vertical overlap of at least half the shorter word's height are
// grouped into the same line. Returned lines are sorted top to bottom by
// their upper edge; words within a line are sorted left to right. Words with
// empty text are dropped.
func GroupLines(regions []ocr.Region) []Line {
	words := make([]ocr.Region, 0, len(regions))
	for _, r := range regions {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		words = append(words, r)
	}
	if len(words) == 0 {
		return nil
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].Bounds.Y1 != words[j].Bounds.Y1 {
			return words[i].Bounds.Y1 < words[j].Bounds.Y1
		}
		return words[i].Bounds.X1 < words[j].Bounds.X1
	})

	var lines []Line
	for _, w := range words {
		placed := false
		for i := range lines {
			if verticalOverlap(lines[i].Bounds, w.Bounds) >= minVerticalOverlap {
				lines[i].Words = append(lines[i].Words, w)
				lines[i].Bounds = union(lines[i].Bounds, w.Bounds)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, Line{Bounds: w.Bounds, Words: []ocr.Region{w}})
		}
	}

	for i := range lines {
		sort.Slice(lines[i].Words, func(a, b int) bool {
			return lines[i].Words[a].Bounds.X1 < lines[i].Words[b].Bounds.X1
		})

		parts := make([]string, len(lines[i].Words))
		var sum float64
		for j, w := range lines[i].Words {
			parts[j] = w.Text
			sum += w.Confidence
		}
		lines[i].Text = strings.Join(parts, " ")
		lines[i].Confidence = sum / float64(len(lines[i].Words))
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Bounds.Y1 != lines[j].Bounds.Y1 {
			return lines[i].Bounds.Y1 < lines[j].Bounds.Y1
		}
		return lines[i].Bounds.X1 < lines[j].Bounds.X1
	})

	return lines
}

// Text joins the non-empty line texts with newlines.
//
// Blank lines never occur: GroupLines drops empty words, so every line has
// at least one character of text.
func Text(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// MergeBlocks combines overlapping region boxes into their unions.
//
// Used for block-level visualization where adjacent detected regions should
// render as one rectangle rather than a stack of overlapping ones.
func MergeBlocks(regions []ocr.Region) []ocr.Bounds {
	merged := make([]ocr.Bounds, 0, len(regions))
	for _, r := range regions {
		found := false
		for i := range merged {
			if overlaps(merged[i], r.Bounds) {
				merged[i] = union(merged[i], r.Bounds)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, r.Bounds)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Y1 != merged[j].Y1 {
			return merged[i].Y1 < merged[j].Y1
		}
		return merged[i].X1 < merged[j].X1
	})

	return merged
}

// verticalOverlap returns the shared vertical extent of a and b as a
// fraction of the shorter box's height.
func verticalOverlap(a, b ocr.Bounds) float64 {
	top := maxInt(a.Y1, b.Y1)
	bottom := minInt(a.Y2, b.Y2)
	if bottom <= top {
		return 0
	}
	shorter := minInt(a.Dy(), b.Dy())
	if shorter <= 0 {
		return 0
	}
	return float64(bottom-top) / float64(shorter)
}

// overlaps reports whether two boxes intersect.
func overlaps(a, b ocr.Bounds) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

// union returns the smallest box containing both a and b.
func union(a, b ocr.Bounds) ocr.Bounds {
	return ocr.Bounds{
		X1: minInt(a.X1, b.X1),
		Y1: minInt(a.Y1, b.Y1),
		X2: maxInt(a.X2, b.X2),
		Y2: maxInt(a.Y2, b.Y2),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
