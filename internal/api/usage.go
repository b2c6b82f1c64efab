package api

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

// usageDoc is the service's API documentation, served rendered at /.
const usageDoc = "# Text localization service\n\n" +
	"Maps search terms from a TEI node to the best-matching region of a\n" +
	"rendered PDF page's text layer.\n\n" +
	"## Endpoints\n\n" +
	"All `/api/*` endpoints require `Authorization: Bearer <key>`.\n\n" +
	"### `POST /api/locate`\n\n" +
	"JSON body: `terms` (list of strings), `scale` (the renderer's active\n" +
	"linear scale factor, 1 if none), `fragments` (text + rect per\n" +
	"fragment), optional `policy` overrides (`minClusterSize`, `maxLines`,\n" +
	"`verticalThresholdLines`, `horizontalThresholdChars`, `anchorTerm`).\n" +
	"Returns `{\"found\": true, \"cluster\": ...}` with the winning\n" +
	"cluster's member matches, bounding box, and total score, or\n" +
	"`{\"found\": false}` when nothing qualifies. Not found is a normal\n" +
	"outcome, not an error.\n\n" +
	"### `POST /api/terms`\n\n" +
	"Body: a TEI node snippet (may be mid-edit and invalid). Returns the\n" +
	"extracted search terms and the node's anchor (`@n`), if any.\n\n" +
	"### `POST /api/textlayer`\n\n" +
	"Multipart upload, field `file`: a PDF. Returns per-page positioned\n" +
	"text fragments (top-left origin, PDF points).\n\n" +
	"### `POST /api/locate/pdf`\n\n" +
	"Multipart upload: `file` (PDF), `terms` (comma/space separated),\n" +
	"optional `anchor`. Locates the terms on every page and returns the\n" +
	"qualifying pages best-first.\n"

var (
	usageOnce sync.Once
	usageHTML []byte
)

// handleUsage serves the rendered usage document.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	usageOnce.Do(func() {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(usageDoc), &buf); err != nil {
			usageHTML = []byte("<pre>" + usageDoc + "</pre>")
			return
		}
		usageHTML = buf.Bytes()
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(usageHTML)
}
