// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SecurityPolicy selects which request methods require authentication.
// See ServerConfig.SecurityPolicy and spec §4.6.
type SecurityPolicy string

// The four supported security policies.
const (
	SecurityPolicyNone     SecurityPolicy = "none"
	SecurityPolicyAll      SecurityPolicy = "all"
	SecurityPolicyUpload   SecurityPolicy = "upload"
	SecurityPolicyDownload SecurityPolicy = "download"
)

// Credentials is the single shared username/password pair this server
// authenticates against. There is no account system: spec §1 explicitly
// excludes "user account systems beyond a single shared credential".
type Credentials struct {
	Username string
	Password string
}

// ServerConfig is immutable for the lifetime of the server it
// configures. One value is built once (see Validate) and shared by
// reference, read-only, across every in-flight request — there is no
// other shared state (spec §5).
type ServerConfig struct {
	// PublicRoot is the absolute directory whose contents are exposed
	// for reading. It must exist at startup.
	PublicRoot string

	// UploadRoot is the absolute directory that receives uploads.
	// Defaults to PublicRoot when empty.
	UploadRoot string

	// EnableUpload turns on the POST upload pipeline (C4).
	EnableUpload bool

	// MaxRequestBytes bounds the number of bytes a single upload may
	// stream in. Validate replaces zero with DefaultMaxRequestBytes
	// (1 GiB).
	MaxRequestBytes uint64

	// PrependTimestamp, if true, prefixes stored upload filenames with
	// a UTC "YYYYMMDD_HHMMSS_" timestamp.
	PrependTimestamp bool

	// PreventOverwrite, if true, refuses an upload whose target
	// filename already exists.
	PreventOverwrite bool

	// CreateDirectories, if true, allows the upload pipeline to
	// mkdir -p missing parent directories under UploadRoot.
	CreateDirectories bool

	// IgnoreFile, if non-empty, names a file (relative to PublicRoot
	// unless absolute) with one ignore pattern per line (spec §4.7).
	IgnoreFile string

	// RestrictFilenameAlphabet, if true, additionally rejects an
	// uploaded filename containing a rune inAlphabet disallows (quote
	// marks, shell metacharacters, Unicode specials/line separators).
	// Off by default: spec §4.4 step 1's three checks (non-empty, ≤255
	// bytes, no '/' or '\') are the only mandatory filename policy.
	RestrictFilenameAlphabet bool

	// SecurityPolicy selects which methods require authentication.
	SecurityPolicy SecurityPolicy

	// Credentials is the shared credential pair. Required (both
	// fields set) whenever SecurityPolicy != SecurityPolicyNone.
	Credentials *Credentials

	// CORSOrigins is the ordered set of origins allowed to make
	// cross-origin requests. "*" means wildcard. Empty disables CORS
	// entirely.
	CORSOrigins []string

	// BindHost, BindPort are consumed only by the bootstrap; the core
	// never binds a socket itself.
	BindHost string
	BindPort uint16

	// ServerName is used in the WWW-Authenticate realm, the directory
	// listing title/footer, and the "generator" meta tag.
	ServerName string
}

// DefaultMaxRequestBytes is the default value of MaxRequestBytes when
// the bootstrap does not set one explicitly (spec §3).
const DefaultMaxRequestBytes uint64 = 1 << 30 // 1 GiB

// DefaultServerName is used when ServerConfig.ServerName is empty.
const DefaultServerName = "fileserver"

// Version is the build version shown in the listing's "generator" meta
// tag and footer (spec §4.2/§6). There is no release-tagging machinery
// yet, so this is a fixed constant rather than a linker-injected one.
const Version = "1.0.0"

// Validate applies the startup checks spec §6 assigns to the
// bootstrap: PublicRoot must exist and be a directory, UploadRoot
// defaults to it and is validated/created per CreateDirectories, and
// the credential pair must be all-or-nothing. The non-zero port check
// is made by the bootstrap, which is what binds the socket.
//
// Validate also canonicalizes PublicRoot/UploadRoot to their
// symlink-resolved absolute forms, establishing invariant I1.
func (c *ServerConfig) Validate() error {
	if c.PublicRoot == "" {
		return errors.New("public_root is required")
	}
	root, err := canonicalizeExistingDir(c.PublicRoot)
	if err != nil {
		return errors.Wrap(err, "public_root")
	}
	c.PublicRoot = root

	if c.UploadRoot == "" {
		c.UploadRoot = c.PublicRoot
	}
	if c.EnableUpload {
		upload, err := canonicalizeDir(c.UploadRoot, c.CreateDirectories)
		if err != nil {
			return errors.Wrap(err, "upload_root")
		}
		c.UploadRoot = upload
	}

	if c.MaxRequestBytes == 0 {
		c.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if c.ServerName == "" {
		c.ServerName = DefaultServerName
	}

	hasCreds := c.Credentials != nil && (c.Credentials.Username != "" || c.Credentials.Password != "")
	if c.SecurityPolicy != "" && c.SecurityPolicy != SecurityPolicyNone {
		if c.Credentials == nil || c.Credentials.Username == "" || c.Credentials.Password == "" {
			return fmt.Errorf("security_policy %q requires both a username and a password", c.SecurityPolicy)
		}
	} else if hasCreds && (c.Credentials.Username == "" || c.Credentials.Password == "") {
		return errors.New("credentials must supply both username and password, or neither")
	}

	switch c.SecurityPolicy {
	case "", SecurityPolicyNone, SecurityPolicyAll, SecurityPolicyUpload, SecurityPolicyDownload:
	default:
		return fmt.Errorf("unknown security_policy %q", c.SecurityPolicy)
	}

	return nil
}

func canonicalizeExistingDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func canonicalizeDir(path string, create bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !create {
		return "", err
	}
	if mkErr := os.MkdirAll(abs, 0o750); mkErr != nil {
		return "", mkErr
	}
	return filepath.EvalSymlinks(abs)
}
