// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestServer(t *testing.T, mutate func(*ServerConfig)) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &ServerConfig{
		PublicRoot:      dir,
		UploadRoot:      dir,
		EnableUpload:    true,
		MaxRequestBytes: DefaultMaxRequestBytes,
		ServerName:      "fileserver-test",
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return NewServer(cfg, zap.NewNop()), cfg.PublicRoot
}

// TestDirectoryRedirect is scenario 2 from spec §8.
func TestDirectoryRedirect(t *testing.T) {
	h, root := newTestServer(t, nil)
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/sub", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/sub/" {
		t.Errorf("got Location %q", got)
	}
}

// TestListingLinkEncoding is scenario 3 from spec §8.
func TestListingLinkEncoding(t *testing.T) {
	h, root := newTestServer(t, nil)
	if err := os.WriteFile(filepath.Join(root, "file with spaces.txt"), []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	body := w.Body.String()
	if !containsAll(body, `href="file%20with%20spaces.txt"`, `file with spaces.txt`) {
		t.Errorf("listing body missing expected href/display pair: %s", body)
	}
}

// TestTraversalRejected is scenario 4 from spec §8.
func TestTraversalRejected(t *testing.T) {
	h, _ := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/..%2fsecret.txt", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestFaviconFallback(t *testing.T) {
	h, _ := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/favicon.ico", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Error("expected non-empty favicon body")
	}
}

func TestStaticAssetServed(t *testing.T) {
	h, _ := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/__assets/style.css", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=31536000" {
		t.Errorf("got Cache-Control %q", got)
	}
}

func TestUnknownMethodOnKnownPath405(t *testing.T) {
	h, _ := newTestServer(t, nil)

	r := httptest.NewRequest(http.MethodDelete, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestUploadDisabled403(t *testing.T) {
	h, _ := newTestServer(t, func(cfg *ServerConfig) { cfg.EnableUpload = false })

	r := newUploadRequest(t, "file", "a.txt", []byte("x"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d", w.Code)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
