package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/locate"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/tei"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

// policyOverrides carries the optional per-request policy fields. Only
// positive values override the configured defaults; AnchorTerm is
// applied verbatim.
type policyOverrides struct {
	MinClusterSize           int     `json:"minClusterSize"`
	MaxLines                 float64 `json:"maxLines"`
	VerticalThresholdLines   float64 `json:"verticalThresholdLines"`
	HorizontalThresholdChars float64 `json:"horizontalThresholdChars"`
	AnchorTerm               string  `json:"anchorTerm"`
}

func (o *policyOverrides) apply(p locate.Policy) locate.Policy {
	if o == nil {
		return p
	}
	if o.MinClusterSize > 0 {
		p.MinClusterSize = o.MinClusterSize
	}
	if o.MaxLines > 0 {
		p.MaxLines = o.MaxLines
	}
	if o.VerticalThresholdLines > 0 {
		p.VerticalThresholdLines = o.VerticalThresholdLines
	}
	if o.HorizontalThresholdChars > 0 {
		p.HorizontalThresholdChars = o.HorizontalThresholdChars
	}
	p.AnchorTerm = o.AnchorTerm
	return p
}

type locateRequest struct {
	Terms     []string             `json:"terms"`
	Scale     float64              `json:"scale"`
	Fragments []textlayer.Fragment `json:"fragments"`
	Policy    *policyOverrides     `json:"policy"`
}

// handleLocate runs one localization over caller-supplied fragments.
// "Not found" is a normal 200 response with found=false, never an
// error: absent matches are an expected user-facing outcome.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	policy := req.Policy.apply(s.cfg.Policy())

	cluster := locate.Select(req.Fragments, req.Terms, scale, policy)

	w.Header().Set("Content-Type", "application/json")
	if cluster == nil {
		json.NewEncoder(w).Encode(map[string]any{"found": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"found":   true,
		"cluster": cluster,
	})
}

// handleTerms extracts search terms from a TEI node snippet posted as
// the request body.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	nt, err := tei.ExtractTerms(r.Body)
	if err != nil {
		jsonError(w, "extract terms: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(nt)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
