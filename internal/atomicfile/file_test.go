// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateExclusiveFailsIfTargetExists(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(target, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}

	_, err := CreateExclusive(target, 0o640)
	if err == nil {
		t.Fatal("expected an error creating an existing file exclusively")
	}
	if got, _ := os.ReadFile(target); string(got) != "old" {
		t.Errorf("existing file content should be untouched, got %q", got)
	}
}

func TestCreateExclusivePersist(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f.txt")

	w, err := CreateExclusive(target, 0o640)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Zap()
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := w.Persist(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestCreateTempThenRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(target, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}

	w, err := CreateTemp(target, 12345, 0o640)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Zap()
	if _, err := w.Write([]byte("new")); err != nil {
		t.Fatal(err)
	}

	// Before Persist, the old file must remain untouched.
	if got, _ := os.ReadFile(target); string(got) != "old" {
		t.Errorf("target should be untouched before Persist, got %q", got)
	}

	if err := w.Persist(); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("got %q after rename", got)
	}

	if _, err := os.Stat(target + ".12345.tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file should be gone after rename")
	}
}

func TestZapRemovesTemporaryWithoutTouchingTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(target, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}

	w, err := CreateTemp(target, 999, 0o640)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	if err := w.Zap(); err != nil {
		t.Fatal(err)
	}

	if got, _ := os.ReadFile(target); string(got) != "old" {
		t.Errorf("target should be untouched, got %q", got)
	}
	if _, err := os.Stat(target + ".999.tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file should have been removed")
	}
}
