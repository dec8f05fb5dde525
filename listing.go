// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

// EntryKind distinguishes a DirectoryEntry's listing row type.
type EntryKind int

// The two kinds of entry a listing can contain.
const (
	EntryKindFile EntryKind = iota
	EntryKindDir
)

// DirectoryEntry is one row of a directory listing, derived purely
// from directory enumeration (spec §3).
type DirectoryEntry struct {
	Name     string
	Size     uint64
	Modified time.Time
	Kind     EntryKind
}

// directoryIndexCandidates are checked, in order, before a listing is
// rendered (spec §4.2).
var directoryIndexCandidates = []string{"index.html", "index.htm"}

// enumerateDirectory lists one directory level. A per-entry stat
// failure (typically a broken symlink) drops that entry with a
// warning and does not fail the whole listing — spec §3/§4.2. A
// symlink that *does* resolve is followed and reported under the
// target's size/kind/mtime, per SPEC_FULL.md §3's supplement on top of
// the distilled spec.
func enumerateDirectory(log *zap.Logger, dir string) ([]DirectoryEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classifyStatError(err)
	}

	entries := make([]DirectoryEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := os.Stat(filepath.Join(dir, de.Name())) // follows symlinks
		if err != nil {
			if log != nil {
				log.Warn("listing: dropping unstat-able entry", zap.String("name", de.Name()), zap.Error(err))
			}
			continue
		}
		kind := EntryKindFile
		size := uint64(0)
		if info.IsDir() {
			kind = EntryKindDir
		} else {
			size = uint64(info.Size())
		}
		entries = append(entries, DirectoryEntry{
			Name:     de.Name(),
			Size:     size,
			Modified: info.ModTime(),
			Kind:     kind,
		})
	}

	sortEntries(entries)
	return entries, nil
}

// sortEntries places directories first (lexicographically by raw
// name bytes), then files (likewise). Case-sensitive, per spec §4.2.
func sortEntries(entries []DirectoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind == EntryKindDir
		}
		return a.Name < b.Name
	})
}

// findDirectoryIndex returns the name of the first of
// directoryIndexCandidates that exists as a regular file directly
// inside dir, or "" if none does.
func findDirectoryIndex(dir string) string {
	for _, candidate := range directoryIndexCandidates {
		info, err := os.Stat(filepath.Join(dir, candidate))
		if err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

// classifyStatError maps a filesystem error from stat/open/readdir to
// the typed httpError the dispatcher expects (spec §4.5/§7).
func classifyStatError(err error) httpError {
	switch {
	case os.IsNotExist(err):
		return errNotFound(err.Error())
	case os.IsPermission(err):
		return errPermissionDenied(err.Error())
	default:
		return errIO(err.Error())
	}
}
