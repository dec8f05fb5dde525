// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"net/url"
	"path/filepath"
	"strings"
)

// JailedPath is the result of resolving a client-supplied request or
// upload path against a configured base directory. It is guaranteed to
// be absolute, lexically (and, for any suffix that exists on disk,
// canonically) a descendant of the base it was resolved against, to
// contain no "." or ".." components, and to contain no NUL byte. It
// does not imply the path exists.
type JailedPath struct {
	// Abs is the resolved absolute path. Safe to open, stat, create or
	// rename without further traversal checks.
	Abs string

	// Base is the canonical root JailedPath was resolved against.
	Base string
}

// resolve maps raw — a slash-delimited, percent-encoded,
// client-supplied suffix with any leading '/' already stripped — to a
// JailedPath rooted at base, which must already be an absolute,
// canonical directory. See spec §4.1 for the full algorithm; this is
// a direct implementation of it, generalized from the traversal guard
// in the teacher's upload.go (splitInDirectoryAndFilename), which only
// ever did a single filepath.Clean + HasPrefix check.
func resolve(base, raw string) (*JailedPath, error) {
	if base == "" || !filepath.IsAbs(base) {
		return nil, errInvalidBase("base must be an absolute path")
	}

	// Step 1: the encoded separator is rejected outright, before any
	// decoding — once decoded it would acquire path-separator
	// semantics the HTTP router never saw.
	if containsEncodedSlash(raw) {
		return nil, errEncodedSlash("percent-encoded '/' is not allowed")
	}

	// Step 2: percent-decode, then validate the decoded text.
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, errInvalidEncoding(err.Error())
	}
	if strings.IndexByte(decoded, 0) >= 0 {
		return nil, errInvalidEncoding("NUL byte in decoded path")
	}
	if strings.ContainsRune(decoded, '\\') {
		return nil, errBackslash("backslash is not allowed in a request path")
	}

	// A surviving leading '/' means the caller's single strip wasn't
	// enough to remove every redundant leading separator — i.e. the
	// client is trying to re-absolutize the path. Reject it rather
	// than silently treating it as a blank component.
	if strings.HasPrefix(decoded, "/") {
		return nil, errInvalidTargetPath("absolute path not allowed")
	}

	components := strings.Split(decoded, "/")
	var stack []string

	for _, c := range components {
		switch {
		case c == "" || c == ".":
			continue
		case c == "..":
			if len(stack) == 0 {
				return nil, errOutsideJail("path escapes the jail root")
			}
			stack = stack[:len(stack)-1]
			continue
		case isWindowsPrefixComponent(c):
			return nil, errWindowsPrefix("drive/prefix markers are not allowed: " + c)
		default:
			stack = append(stack, c)
		}

		// Re-check symlinks on every prefix that exists on disk so a
		// symlink planted partway down the path can't walk us outside
		// base once resolved.
		candidate := filepath.Join(append([]string{base}, stack...)...)
		resolved, err := filepath.EvalSymlinks(candidate)
		if err == nil {
			if !isDescendant(base, resolved) {
				return nil, errOutsideJail("symlink escapes the jail root: " + c)
			}
		}
		// Non-existent tail components are expected (e.g. an upload
		// target that doesn't exist yet) and are not an error here.
	}

	final := filepath.Join(append([]string{base}, stack...)...)
	if !isDescendant(base, final) {
		return nil, errOutsideJail("resolved path escapes the jail root")
	}

	return &JailedPath{Abs: final, Base: base}, nil
}

// containsEncodedSlash reports whether raw contains "%2F" or "%2f".
func containsEncodedSlash(raw string) bool {
	return strings.Contains(raw, "%2F") || strings.Contains(raw, "%2f")
}

// isWindowsPrefixComponent reports whether c starts with a Windows
// drive letter ("C:"). Backslash-based UNC and device-namespace
// markers are already rejected earlier by the blanket backslash check;
// this catches the forward-slash-compatible remainder. Enforced
// regardless of the host OS, since a path received over HTTP can
// originate from any client.
func isWindowsPrefixComponent(c string) bool {
	if len(c) >= 2 && c[1] == ':' {
		b := c[0]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
			return true
		}
	}
	return false
}

// isDescendant reports whether candidate is base itself, or a path
// lexically rooted under it, respecting path-separator boundaries (so
// that base "/a/b" does not match candidate "/a/bc").
func isDescendant(base, candidate string) bool {
	base = filepath.Clean(base)
	candidate = filepath.Clean(candidate)
	if candidate == base {
		return true
	}
	return strings.HasPrefix(candidate, base+string(filepath.Separator))
}

// pathSegmentEncodeSet is the minimum set of characters spec §4.1
// requires encode_path_segments to escape, beyond the usual reserved
// set: controls, space, and the characters that would otherwise be
// ambiguous inside an HTML href attribute or a percent-decode pass.
const pathSegmentEncodeSet = " \"#%<>?`{}\\"

// encodePathSegments percent-encodes each '/'-delimited segment of p
// for safe use inside a generated HTML href attribute, leaving the
// separators themselves untouched. This guarantees listing-generated
// links round-trip through resolve unchanged — in particular a file
// whose name contains '%' links to its literal name (encoded as
// "%25"), never to a percent-escape that would decode into something
// else downstream.
func encodePathSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = encodePathSegment(s)
	}
	return strings.Join(segments, "/")
}

func encodePathSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || strings.IndexByte(pathSegmentEncodeSet, c) >= 0 {
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0xf))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
