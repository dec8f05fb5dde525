// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Contains the outermost link of the middleware chain (C6): a fixed
// set of security headers stamped onto every response, including
// error responses. Grounded on the teacher's setup_else.go, which
// chained middleware the same way (one handler wrapping Next), though
// the teacher never set headers of its own — this is enrichment from
// the wider pack's practice of a small security-headers layer ahead of
// routing (seen in caddyserver-caddy's header middleware).
package fileserver

import "net/http"

// securityHeaders is spec §4.6's fixed table, written verbatim into
// every response regardless of outcome.
var securityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; object-src 'none'",
}

// withSecurityHeaders wraps next so that securityHeaders are set
// before next runs — so they are present even if next's own
// WriteHeader call is the very first write, and so they survive
// whatever status the inner handler decides on.
func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}
