// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnumerateDirectorySortsDirsFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o640); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"zdir", "adir"} {
		if err := os.MkdirAll(filepath.Join(dir, name), 0o750); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := enumerateDirectory(nil, dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name)
	}
	want := []string{"adir", "zdir", "a.txt", "b.txt"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEnumerateDirectoryDropsBrokenSymlink(t *testing.T) {
	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "broken")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "present.txt"), []byte("x"), 0o640); err != nil {
		t.Fatal(err)
	}

	entries, err := enumerateDirectory(nil, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "present.txt" {
		t.Errorf("expected only present.txt, got %+v", entries)
	}
}

func TestFindDirectoryIndexPrefersHTML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.htm"), []byte("htm"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("html"), 0o640); err != nil {
		t.Fatal(err)
	}
	if got := findDirectoryIndex(dir); got != "index.html" {
		t.Errorf("got %q, want index.html", got)
	}
}

func TestFindDirectoryIndexNone(t *testing.T) {
	dir := t.TempDir()
	if got := findDirectoryIndex(dir); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

// TestRenderListingEncodesLinkEncoding is scenario 3 from spec §8.
func TestRenderListingEncodesLinkEncoding(t *testing.T) {
	entries := []DirectoryEntry{
		{Name: "file with spaces.txt", Kind: EntryKindFile},
	}
	html, err := renderListing("fileserver", "/", entries)
	if err != nil {
		t.Fatal(err)
	}
	body := string(html)
	if !strings.Contains(body, `href="file%20with%20spaces.txt"`) {
		t.Errorf("missing encoded href in: %s", body)
	}
	if !strings.Contains(body, `>file with spaces.txt<`) {
		t.Errorf("missing literal display name in: %s", body)
	}
}

func TestRenderListingEscapesHTML(t *testing.T) {
	entries := []DirectoryEntry{
		{Name: `<script>.txt`, Kind: EntryKindFile},
	}
	html, err := renderListing("fileserver", "/sub/", entries)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), "<script>.txt<") {
		t.Errorf("expected HTML-escaped name, got raw markup: %s", html)
	}
}

func TestRenderListingNoParentLinkAtRoot(t *testing.T) {
	html, err := renderListing("fileserver", "/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), `href="../"`) {
		t.Errorf("root listing should not show a parent link: %s", html)
	}
}

func TestRenderListingParentLinkElsewhere(t *testing.T) {
	html, err := renderListing("fileserver", "/sub/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), `href="../"`) {
		t.Errorf("non-root listing should show a parent link: %s", html)
	}
}
