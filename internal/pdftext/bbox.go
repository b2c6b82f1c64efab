package pdftext

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
	"golang.org/x/net/html"
)

// extractBboxPages shells out to pdftotext in bbox mode, which emits an
// XHTML document of per-word bounding boxes with a top-left origin.
func extractBboxPages(path string) ([]textlayer.Page, error) {
	cmd := exec.Command("pdftotext", "-bbox", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return parseBbox(out)
}

// parseBbox walks pdftotext's bbox XHTML. The lenient HTML parser is
// deliberate: poppler's output is XHTML, but leniency costs nothing and
// the parser lowercases attribute names for us.
func parseBbox(data []byte) ([]textlayer.Page, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse bbox output: %w", err)
	}

	var pages []textlayer.Page
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "page" {
			page := textlayer.Page{
				Number: len(pages) + 1,
				Width:  attrFloat(n, "width"),
				Height: attrFloat(n, "height"),
			}
			// -bbox puts words directly under the page; -bbox-layout
			// nests them in flow/block/line elements. Collect both.
			var words func(*html.Node)
			words = func(m *html.Node) {
				if m.Type == html.ElementNode && m.Data == "word" {
					if f, ok := wordFragment(m); ok {
						page.Fragments = append(page.Fragments, f)
					}
					return
				}
				for c := m.FirstChild; c != nil; c = c.NextSibling {
					words(c)
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				words(c)
			}
			pages = append(pages, page)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(pages) == 0 {
		return nil, fmt.Errorf("bbox output contains no pages")
	}
	return pages, nil
}

func wordFragment(n *html.Node) (textlayer.Fragment, bool) {
	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return textlayer.Fragment{}, false
	}
	xMin := attrFloat(n, "xmin")
	yMin := attrFloat(n, "ymin")
	xMax := attrFloat(n, "xmax")
	yMax := attrFloat(n, "ymax")
	if xMax <= xMin || yMax <= yMin {
		return textlayer.Fragment{}, false
	}
	return textlayer.Fragment{
		Text: text,
		Rect: textlayer.Rect{
			Left:   xMin,
			Top:    yMin,
			Right:  xMax,
			Bottom: yMax,
			Width:  xMax - xMin,
			Height: yMax - yMin,
		},
	}, true
}

func attrFloat(n *html.Node, name string) float64 {
	for _, a := range n.Attr {
		if a.Key == name {
			v, err := strconv.ParseFloat(strings.TrimSpace(a.Val), 64)
			if err == nil {
				return v
			}
		}
	}
	return 0
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
