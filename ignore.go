// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// IgnoreRuleSet is an ordered sequence of anchored matchers compiled
// from one ignore file. It lives for the duration of a single listing
// request; it is never cached (spec §3).
type IgnoreRuleSet struct {
	rules []*regexp.Regexp
}

// loadIgnoreRuleSet reads and compiles path (resolved relative to
// publicRoot when not absolute). A missing file yields an empty,
// non-nil rule set silently; a file that exists but cannot be
// compiled logs a warning once and also degrades to an empty set —
// spec §4.7 and §7 both require this to never fail a listing.
func loadIgnoreRuleSet(log *zap.Logger, publicRoot, ignoreFile string) *IgnoreRuleSet {
	if ignoreFile == "" {
		return &IgnoreRuleSet{}
	}
	path := ignoreFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(publicRoot, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return &IgnoreRuleSet{}
	}
	defer f.Close()

	var rules []*regexp.Regexp
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		re, err := compileIgnorePattern(trimmed)
		if err != nil {
			if log != nil {
				log.Warn("ignore file: unparsable pattern, ignoring file", zap.String("file", path), zap.String("pattern", trimmed), zap.Error(err))
			}
			return &IgnoreRuleSet{}
		}
		rules = append(rules, re)
	}
	if err := scanner.Err(); err != nil {
		if log != nil {
			log.Warn("ignore file: read failed, ignoring", zap.String("file", path), zap.Error(err))
		}
		return &IgnoreRuleSet{}
	}

	return &IgnoreRuleSet{rules: rules}
}

// compileIgnorePattern translates one glob-like pattern line into an
// anchored regular expression: '*' becomes ".*", '?' becomes ".", any
// other regex metacharacter is escaped, and the whole pattern is
// wrapped "^...$" so matching is always whole-string. This is a direct
// implementation of spec §4.7; stdlib regexp is used because the spec
// names this exact translation rather than any richer glob grammar, so
// a general-purpose glob library (e.g. the doublestar matcher used
// elsewhere in the retrieval pack for "**"-style ignore rules) would
// not reproduce it faithfully.
func compileIgnorePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.Compile(b.String())
}

// Matches reports whether relPath (a slash-delimited path relative to
// publicRoot) matches any rule in this set.
func (s *IgnoreRuleSet) Matches(relPath string) bool {
	if s == nil {
		return false
	}
	for _, re := range s.rules {
		if re.MatchString(relPath) {
			return true
		}
	}
	return false
}

// filterEntries drops every entry whose name, joined to dirRelPath,
// matches rules. dirRelPath is the directory's own path relative to
// publicRoot ("" for the root itself).
func filterEntries(entries []DirectoryEntry, dirRelPath string, rules *IgnoreRuleSet) []DirectoryEntry {
	if rules == nil || len(rules.rules) == 0 {
		return entries
	}
	out := entries[:0:0]
	for _, e := range entries {
		rel := e.Name
		if dirRelPath != "" {
			rel = dirRelPath + "/" + e.Name
		}
		if rules.Matches(rel) {
			continue
		}
		out = append(out, e)
	}
	return out
}
