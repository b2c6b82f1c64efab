// Package pdftext builds positioned text layers from PDF files. It
// tries the Go library first, then falls back to pdftotext's bbox
// output if available.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

// Extractor turns PDF bytes into per-page fragment collections.
type Extractor struct {
	FallbackPdftotext bool
}

// Extract reads a whole PDF and returns one text layer per page.
// Coordinates are top-left origin in PDF points, scale 1.
func (e *Extractor) Extract(r io.Reader) ([]textlayer.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "teipdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPages(tmpPath)
	if err != nil && e.FallbackPdftotext {
		pages, err = extractBboxPages(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text layer: %w", err)
	}
	return pages, nil
}

func extractPages(path string) ([]textlayer.Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []textlayer.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		width, height := mediaBoxSize(page)
		content := page.Content()
		pages = append(pages, textlayer.Page{
			Number:    i,
			Width:     width,
			Height:    height,
			Fragments: assembleWords(content.Text, height),
		})
	}
	return pages, nil
}

// Default page size (US Letter in points) when no MediaBox resolves.
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

// mediaBoxSize resolves the page's MediaBox, walking up the page tree
// for inherited values.
func mediaBoxSize(page pdflib.Page) (width, height float64) {
	v := page.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			width = mb.Index(2).Float64() - mb.Index(0).Float64()
			height = mb.Index(3).Float64() - mb.Index(1).Float64()
			if width > 0 && height > 0 {
				return width, height
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

// ascentRatio approximates how far glyphs extend above the baseline,
// as a fraction of the font size.
const ascentRatio = 0.8

// assembleWords merges the content stream's raw text items (often
// per-glyph) into word fragments with top-left-origin rectangles.
// pageHeight flips the PDF's bottom-left y axis.
func assembleWords(items []pdflib.Text, pageHeight float64) []textlayer.Fragment {
	items = append([]pdflib.Text(nil), items...)

	// Reading order: top of page first, then left to right. PDF y
	// grows upward, so larger y sorts earlier.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Y != items[j].Y {
			return items[i].Y > items[j].Y
		}
		return items[i].X < items[j].X
	})

	var frags []textlayer.Fragment
	var word strings.Builder
	var left, right, baseline, size float64

	flush := func() {
		text := strings.TrimSpace(word.String())
		word.Reset()
		if text == "" {
			return
		}
		fontSize := size
		if fontSize <= 0 {
			fontSize = 10
		}
		top := pageHeight - baseline - fontSize*ascentRatio
		frags = append(frags, textlayer.Fragment{
			Text: text,
			Rect: textlayer.Rect{
				Left:   left,
				Top:    top,
				Right:  right,
				Bottom: top + fontSize,
				Width:  right - left,
				Height: fontSize,
			},
		})
	}

	for _, item := range items {
		if strings.TrimSpace(item.S) == "" {
			flush()
			continue
		}
		gap := item.X - right
		sameLine := word.Len() > 0 && sameBaseline(item.Y, baseline, size)
		if !sameLine || gap > wordGap(item.FontSize) {
			flush()
		}
		if word.Len() == 0 {
			left = item.X
			right = item.X
			baseline = item.Y
			size = item.FontSize
		}
		word.WriteString(item.S)
		if end := item.X + item.W; end > right {
			right = end
		}
	}
	flush()

	return frags
}

// sameBaseline tolerates small baseline jitter (sub/superscripts,
// rounding) relative to the font size.
func sameBaseline(y, baseline, fontSize float64) bool {
	tolerance := fontSize * 0.3
	if tolerance < 1 {
		tolerance = 1
	}
	d := y - baseline
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// wordGap is the horizontal gap beyond which two items belong to
// separate words even without an explicit space.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3
	}
	return fontSize * 0.3
}
