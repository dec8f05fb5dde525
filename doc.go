// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fileserver implements a single-binary HTTP file server.
//
// It publishes the contents of a directory ("public root") over HTTP,
// and — if enabled — accepts multipart uploads into a second directory
// ("upload root", which may be the same as the public root). It is
// meant for ad-hoc file sharing on trusted or semi-trusted networks,
// not as a general-purpose web application platform.
//
// The package is organized around three cores: a path-jail resolver
// that maps any client-supplied path to an absolute filesystem path
// provably inside a configured root, a streaming
// file/directory serving pipeline with HTTP range support, and a
// streaming multipart upload pipeline with atomic rename semantics.
// A policy-driven middleware chain (authentication, CORS, security
// headers) wraps all three.
//
// Everything here is safe for concurrent use once built: the handler
// NewServer returns shares only its ServerConfig (read-only) across
// requests, and handles every request independently of every other.
package fileserver // import "blitznote.com/src/fileserver"
