// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestServeFileFullResponse(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "abcdef")

	r := httptest.NewRequest(http.MethodGet, "/a.txt", nil)
	w := httptest.NewRecorder()
	if err := serveFile(nil, w, r, path); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.String() != "abcdef" {
		t.Fatalf("got body %q", w.Body.String())
	}
	if w.Header().Get("Accept-Ranges") != "bytes" {
		t.Errorf("missing Accept-Ranges header")
	}
}

// TestServeFileRangeSuffix is scenario 1 from spec §8.
func TestServeFileRangeSuffix(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "abcdef")

	r := httptest.NewRequest(http.MethodGet, "/a.txt", nil)
	r.Header.Set("Range", "bytes=-2")
	w := httptest.NewRecorder()
	if err := serveFile(nil, w, r, path); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusPartialContent {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes 4-5/6" {
		t.Errorf("got Content-Range %q", got)
	}
	if got := w.Header().Get("Content-Length"); got != "2" {
		t.Errorf("got Content-Length %q", got)
	}
	if w.Body.String() != "ef" {
		t.Errorf("got body %q", w.Body.String())
	}
}

func TestServeFileRangeUnsatisfiable(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "abcdef")

	r := httptest.NewRequest(http.MethodGet, "/a.txt", nil)
	r.Header.Set("Range", "bytes=100-200")
	w := httptest.NewRecorder()
	if err := serveFile(nil, w, r, path); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Header().Get("Content-Range"); got != "bytes */6" {
		t.Errorf("got Content-Range %q", got)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestServeFileHeadHasNoBody(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "abcdef")

	r := httptest.NewRequest(http.MethodHead, "/a.txt", nil)
	w := httptest.NewRecorder()
	if err := serveFile(nil, w, r, path); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD, got %q", w.Body.String())
	}
	if got := w.Header().Get("Content-Length"); got != "6" {
		t.Errorf("got Content-Length %q", got)
	}
}

func TestServeFileNotFound(t *testing.T) {
	dir := t.TempDir()
	r := httptest.NewRequest(http.MethodGet, "/missing.txt", nil)
	w := httptest.NewRecorder()
	err := serveFile(nil, w, r, filepath.Join(dir, "missing.txt"))
	if err == nil || err.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
