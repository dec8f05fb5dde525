// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Contains an optional, config-gated filename alphabet check. spec.md
// §4.4 step 1 is exhaustive — non-empty, ≤255 bytes, no '/' or '\' —
// and original_source's sanitize_filename checks exactly those three
// things, nothing more, so inAlphabet must never run on the mandatory
// path; it is available only when ServerConfig.RestrictFilenameAlphabet
// opts into it. Adapted from the teacher's filename.go: InAlphabet and
// its supporting rune tables are kept verbatim in spirit, but
// ParseUnicodeBlockList (which let a Caddyfile configure an arbitrary
// allowed alphabet) is dropped — spec.md names no such per-deployment
// alphabet configuration, so there is nothing for it to parse; the
// fixed default-deny rune set below is all this server needs.

package fileserver

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// alwaysRejectedRunes are never safe in a filename shared over a
	// network mount, regardless of alphabet.
	alwaysRejectedRunes = `"*:<>?|\`

	runeSpatium = ' '
)

// excludedRunes blocks line/paragraph separators and the Unicode
// "specials" block, none of which render sanely in a directory
// listing or on common filesystems.
var excludedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2028, Hi: 0x202f, Stride: 1},
		{Lo: 0xfff0, Hi: 0xffff, Stride: 1},
	},
}

// inAlphabet is true for strings in NFC form containing none of the
// runes excludedRunes or alwaysRejectedRunes blocks, with whitespace
// other than U+0020 rejected as unprintable. It is an optional,
// stricter check the upload pipeline applies to the sanitized filename
// only when ServerConfig.RestrictFilenameAlphabet is set; it is never
// part of spec.md §4.4 step 1's mandatory three checks.
func inAlphabet(s string) bool {
	if !norm.NFC.IsNormalString(s) {
		return false
	}
	for _, r := range s {
		if uint32(r) <= unicode.MaxLatin1 && strings.ContainsRune(alwaysRejectedRunes, r) {
			return false
		}
		if r == runeSpatium {
			continue
		}
		if unicode.Is(excludedRunes, r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
