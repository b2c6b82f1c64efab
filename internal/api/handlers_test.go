package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/config"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/textlayer"
)

const testKey = "test-key"

func newTestServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Load()
	cfg.APIKey = testKey
	return NewServer(log, cfg)
}

func authedRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

// packedFragments returns n matching fragments on one 12px line.
func packedFragments(text string, n int) []textlayer.Fragment {
	var frags []textlayer.Fragment
	for i := 0; i < n; i++ {
		left := float64(i * 30)
		frags = append(frags, textlayer.Fragment{
			Text: text,
			Rect: textlayer.Rect{
				Left: left, Top: 100, Right: left + 25, Bottom: 112,
				Width: 25, Height: 12,
			},
		})
	}
	return frags
}

func TestHandleLocate_Found(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"terms":     []string{"gianna"},
		"scale":     1,
		"fragments": packedFragments("gianna", 6),
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest("POST", "/api/locate", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	var resp struct {
		Found   bool `json:"found"`
		Cluster struct {
			TotalScore int               `json:"totalScore"`
			Bounds     textlayer.Rect    `json:"bounds"`
			Matches    []json.RawMessage `json:"matches"`
		} `json:"cluster"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Found {
		t.Fatalf("expected found=true, body: %s", rec.Body)
	}
	if len(resp.Cluster.Matches) != 6 {
		t.Errorf("matches = %d, want 6", len(resp.Cluster.Matches))
	}
	if resp.Cluster.TotalScore != 60 {
		t.Errorf("total score = %d, want 60", resp.Cluster.TotalScore)
	}
}

func TestHandleLocate_NotFoundIsOK(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"terms":     []string{"gianna"},
		"scale":     1,
		"fragments": packedFragments("unrelated", 6),
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest("POST", "/api/locate", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Found bool `json:"found"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Found {
		t.Errorf("expected found=false, body: %s", rec.Body)
	}
}

func TestHandleLocate_EmptyTermsIsNotFound(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(map[string]any{
		"terms":     []string{},
		"scale":     1,
		"fragments": packedFragments("gianna", 6),
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest("POST", "/api/locate", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"found":false`) {
		t.Errorf("expected found=false, body: %s", rec.Body)
	}
}

func TestHandleLocate_PolicyOverrides(t *testing.T) {
	srv := newTestServer()

	// The group qualifies on its own, but the requested anchor term
	// appears nowhere in it, so the override must veto the result.
	body, _ := json.Marshal(map[string]any{
		"terms":     []string{"gianna"},
		"scale":     1,
		"fragments": packedFragments("gianna", 6),
		"policy":    map[string]any{"anchorTerm": "23"},
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest("POST", "/api/locate", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"found":false`) {
		t.Errorf("anchor veto expected, body: %s", rec.Body)
	}
}

func TestHandleLocate_BadJSON(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest("POST", "/api/locate", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTerms_ExtractsFromSnippet(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	snippet := `<note n="23">See Gianna Rossi, 1797.</note>`
	srv.ServeHTTP(rec, authedRequest("POST", "/api/terms", strings.NewReader(snippet)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	var resp struct {
		Anchor string   `json:"anchor"`
		Terms  []string `json:"terms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Anchor != "23" {
		t.Errorf("anchor = %q, want %q", resp.Anchor, "23")
	}
	if len(resp.Terms) == 0 || resp.Terms[0] != "23" {
		t.Errorf("terms = %v, want anchor-led list", resp.Terms)
	}
}

func TestAuth_MissingAndWrongKey(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/locate", strings.NewReader("{}")))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/locate", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer wrong")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", rec.Code)
	}
}

func TestPublicEndpoints(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/ status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("/ content type = %q, want html", ct)
	}
}

func TestHandleLocatePDF_RequiresFile(t *testing.T) {
	srv := newTestServer()

	rec := httptest.NewRecorder()
	req := authedRequest("POST", "/api/locate/pdf", strings.NewReader("terms=gianna"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSplitTerms(t *testing.T) {
	got := splitTerms("gianna, rossi  1797,")
	want := []string{"gianna", "rossi", "1797"}
	if len(got) != len(want) {
		t.Fatalf("splitTerms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitTerms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := sanitizeFilename("../../etc/passwd.pdf"); strings.Contains(got, "..") || strings.Contains(got, "/") {
		t.Errorf("sanitizeFilename left traversal parts: %q", got)
	}
	if got := sanitizeFilename(""); got != "unnamed" {
		t.Errorf("sanitizeFilename(\"\") = %q, want \"unnamed\"", got)
	}
}
