// Package tei extracts search terms from a clicked TEI node snippet.
// Snippets come straight from a live editor, so they are parsed
// leniently: content is often momentarily invalid XML mid-edit.
package tei

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// NodeTerms is what the localization engine needs from a clicked node:
// an ordered term list, and the node's anchor (its @n attribute, e.g. a
// footnote number) when present. The anchor, if any, leads the term
// list so it carries the highest priority.
type NodeTerms struct {
	Anchor string   `json:"anchor,omitempty"`
	Terms  []string `json:"terms"`
}

// ExtractTerms parses a TEI node snippet and tokenizes its text content
// into search terms. Terms keep document order, are deduplicated, and
// drop single-character tokens (the scorer cannot use them).
func ExtractTerms(r io.Reader) (NodeTerms, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return NodeTerms{}, fmt.Errorf("parse node snippet: %w", err)
	}

	var nt NodeTerms
	if root := firstContentElement(doc); root != nil {
		nt.Anchor = strings.TrimSpace(attr(root, "n"))
	}

	terms := tokenize(textContent(doc))
	if nt.Anchor != "" {
		terms = append([]string{nt.Anchor}, terms...)
	}
	nt.Terms = dedupe(terms)
	return nt, nil
}

// firstContentElement returns the snippet's own root element, skipping
// the html/head/body scaffolding the lenient parser adds.
func firstContentElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "html", "head", "body":
			// Scaffolding, keep descending.
		default:
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if e := firstContentElement(c); e != nil {
			return e
		}
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// tokenize splits text into candidate terms, trimming surrounding
// punctuation but keeping interior punctuation ("Dr.Gianna", "p.14").
func tokenize(text string) []string {
	var terms []string
	for _, field := range strings.Fields(text) {
		term := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if utf8.RuneCountInString(term) < 2 {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	for _, t := range terms {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
