// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Request-id correlation, adapted from
// caddyserver-caddy/caddyhttp/requestid: a uuid is attached to every
// request's context and echoed in logs, so a single upload or GET can
// be traced across the access log and any error log line it produced.
// It is echoed on the X-Request-Id response header, never in an error
// body (spec §7).
package fileserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type requestIDKey struct{}

const requestIDHeader = "X-Request-Id"

// withRequestID assigns a fresh uuid to the request, or reuses one a
// reverse proxy already set via requestIDHeader, then stores it on the
// context and echoes it back on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestIDFrom extracts the id withRequestID stored, or "" if none.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// loggerWithRequestID returns log annotated with r's request id field,
// for handlers that log independently of writeError.
func loggerWithRequestID(log *zap.Logger, r *http.Request) *zap.Logger {
	if id := requestIDFrom(r.Context()); id != "" {
		return log.With(zap.String("request_id", id))
	}
	return log
}
