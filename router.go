// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Contains the request router & dispatcher (C5), wired on
// github.com/go-chi/chi/v5 — the teacher routed everything itself
// (Caddy owned routing, and setup_else.go's UploadHandler only ever
// decided "mine or Next's"), so chi is enrichment from the rest of the
// pack (seen throughout caddyserver-caddy's v2 tree) rather than a
// teacher dependency, chosen because spec §4.5's route table is a
// small, static method/prefix table exactly matched by chi's Mux.
package fileserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewServer builds the full handler chain for cfg: security headers
// wrap CORS wraps auth wraps the route dispatcher (spec §4.6's fixed
// ordering), with the request-id layer placed between CORS and auth.
func NewServer(cfg *ServerConfig, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get(staticAssetPrefix+"*", func(w http.ResponseWriter, req *http.Request) {
		key := chi.URLParam(req, "*")
		serveStaticAsset(w, key)
	})
	r.Head(staticAssetPrefix+"*", func(w http.ResponseWriter, req *http.Request) {
		key := chi.URLParam(req, "*")
		serveStaticAsset(w, key)
	})

	getHandler := func(w http.ResponseWriter, req *http.Request) {
		handleGet(log, cfg, w, req)
	}
	r.Get("/*", getHandler)
	r.Head("/*", getHandler)

	r.Post("/*", func(w http.ResponseWriter, req *http.Request) {
		handlePost(log, cfg, w, req)
	})

	// OPTIONS is an honored method (spec §6) even outside a CORS
	// preflight — a non-preflight OPTIONS (or one arriving when CORS is
	// disabled) gets a bare 200 rather than falling through to 405.
	r.Options("/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	var handler http.Handler = r
	handler = withAuth(log, cfg, handler)
	handler = withRequestID(handler)
	handler = withCORS(cfg, handler)
	handler = withSecurityHeaders(handler)
	return handler
}

// handleGet implements the GET/HEAD branch of C5: resolve via C1,
// dispatch to the listing (C2) or file responder (C3), and apply the
// directory-redirect and favicon-fallback rules.
func handleGet(log *zap.Logger, cfg *ServerConfig, w http.ResponseWriter, r *http.Request) {
	rawPath := strings.TrimPrefix(r.URL.EscapedPath(), "/")

	jailed, err := resolve(cfg.PublicRoot, rawPath)
	if err != nil {
		writeError(log, r, w, err.(httpError))
		return
	}

	info, statErr := os.Stat(jailed.Abs)
	if statErr != nil {
		if os.IsNotExist(statErr) && strings.HasSuffix(r.URL.Path, "/favicon.ico") {
			data, contentType := faviconBytes()
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("Cache-Control", "public, max-age=31536000")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
		writeError(log, r, w, classifyStatError(statErr))
		return
	}

	if !info.IsDir() {
		if herr := serveFile(log, w, r, jailed.Abs); herr != nil {
			writeError(log, r, w, herr)
		}
		return
	}

	if !strings.HasSuffix(r.URL.Path, "/") {
		redirect := &needsRedirectError{location: r.URL.Path + "/"}
		w.Header().Set("Location", redirect.location)
		w.WriteHeader(redirect.StatusCode())
		return
	}

	if indexName := findDirectoryIndex(jailed.Abs); indexName != "" {
		if herr := serveFile(log, w, r, filepath.Join(jailed.Abs, indexName)); herr != nil {
			writeError(log, r, w, herr)
		}
		return
	}

	entries, enumErr := enumerateDirectory(log, jailed.Abs)
	if enumErr != nil {
		writeError(log, r, w, enumErr.(httpError))
		return
	}

	dirRelPath, relErr := filepath.Rel(cfg.PublicRoot, jailed.Abs)
	if relErr != nil {
		dirRelPath = ""
	}
	if dirRelPath == "." {
		dirRelPath = ""
	}
	dirRelPath = filepath.ToSlash(dirRelPath)
	rules := loadIgnoreRuleSet(log, cfg.PublicRoot, cfg.IgnoreFile)
	entries = filterEntries(entries, dirRelPath, rules)

	body, renderErr := renderListing(cfg.ServerName, r.URL.Path, entries)
	if renderErr != nil {
		writeError(log, r, w, errIO(renderErr.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(body)
	}
}

// handlePost implements the upload branch of C5.
func handlePost(log *zap.Logger, cfg *ServerConfig, w http.ResponseWriter, r *http.Request) {
	rawPath := strings.TrimPrefix(r.URL.EscapedPath(), "/")
	requestDir := strings.TrimSuffix(rawPath, "/")

	if herr := handleUpload(log, cfg, w, r, requestDir); herr != nil {
		writeError(log, r, w, herr)
	}
}

// writeError maps a typed error to its HTTP status and logs it at the
// level the error itself carries (spec §7). The body is left empty:
// spec §7 says the content of an error is conveyed only by status,
// logs, and the preserved security/CORS headers.
func writeError(log *zap.Logger, r *http.Request, w http.ResponseWriter, err httpError) {
	if log != nil {
		ce := loggerWithRequestID(log, r).Check(err.LogLevel(), "request failed")
		if ce != nil {
			ce.Write(zap.Error(err))
		}
	}
	w.WriteHeader(err.StatusCode())
}
