package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/locate"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

// handleTextLayer extracts positioned text layers from an uploaded PDF
// so the frontend can render selection overlays or feed /api/locate.
func (s *Server) handleTextLayer(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readPDFUpload(w, r)
	if !ok {
		return
	}

	pages, err := s.extractor.Extract(bytes.NewReader(data))
	if err != nil {
		s.log.Error("text layer extraction failed", "filename", filename, "error", err)
		jsonError(w, "extract text layer: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"pages":    pages,
	})
}

// pageResult is one page's localization outcome in a multi-page run.
type pageResult struct {
	Page    int             `json:"page"`
	Cluster *locate.Cluster `json:"cluster"`
}

// handleLocatePDF uploads a PDF together with terms and finds the
// best-matching cluster on every page, ranked across pages. Page
// extraction is sequential (the reader is not concurrency-safe);
// per-page selection fans out under a bounded semaphore.
func (s *Server) handleLocatePDF(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readPDFUpload(w, r)
	if !ok {
		return
	}

	terms := splitTerms(r.FormValue("terms"))
	if len(terms) == 0 {
		jsonError(w, "terms is required", http.StatusBadRequest)
		return
	}

	policy := s.cfg.Policy()
	policy.AnchorTerm = strings.TrimSpace(r.FormValue("anchor"))

	pages, err := s.extractor.Extract(bytes.NewReader(data))
	if err != nil {
		s.log.Error("text layer extraction failed", "filename", filename, "error", err)
		jsonError(w, "extract text layer: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// Extracted layers are already in layer-local coordinates.
	const scale = 1

	results := make(chan pageResult, len(pages))
	sem := make(chan struct{}, s.cfg.MaxConcurrentLocate)
	for _, page := range pages {
		sem <- struct{}{}
		go func(page textlayer.Page) {
			defer func() { <-sem }()
			results <- pageResult{
				Page:    page.Number,
				Cluster: locate.Select(page.Fragments, terms, scale, policy),
			}
		}(page)
	}

	var found []pageResult
	for range pages {
		if res := <-results; res.Cluster != nil {
			found = append(found, res)
		}
	}

	// Best page first; equal scores keep page order.
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Cluster.TotalScore != found[j].Cluster.TotalScore {
			return found[i].Cluster.TotalScore > found[j].Cluster.TotalScore
		}
		return found[i].Page < found[j].Page
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"found":   len(found) > 0,
		"results": found,
	})
}

// readPDFUpload reads the "file" field of a multipart upload, enforcing
// the size limit and the .pdf extension. On failure it writes the error
// response and returns ok=false.
func (s *Server) readPDFUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return nil, "", false
	}

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}
	return data, filename, true
}

// splitTerms parses the comma- or whitespace-separated terms field.
func splitTerms(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	var terms []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}
