// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"net/http"

	"go.uber.org/zap/zapcore"
)

// httpError is implemented by every typed error this package returns
// across its jail, listing, file, upload and middleware components.
// It generalizes the one pattern the teacher used only for its
// signature-auth scheme (an error that knows its own suggested HTTP
// status code) to every error this server can produce.
type httpError interface {
	error

	// StatusCode is the HTTP status the dispatcher should answer with.
	StatusCode() int

	// LogLevel is the level at which the dispatcher should log this
	// error, per the table in this package's design notes.
	LogLevel() zapcore.Level
}

// simpleHTTPError is the common implementation backing every typed
// error kind below: a short tag, a status code and a log level.
type simpleHTTPError struct {
	kind    string
	message string
	status  int
	level   zapcore.Level
}

func (e *simpleHTTPError) Error() string {
	if e.message != "" {
		return e.kind + ": " + e.message
	}
	return e.kind
}

func (e *simpleHTTPError) StatusCode() int        { return e.status }
func (e *simpleHTTPError) LogLevel() zapcore.Level { return e.level }

func newError(kind string, status int, level zapcore.Level, msg string) *simpleHTTPError {
	return &simpleHTTPError{kind: kind, message: msg, status: status, level: level}
}

// Path-jail error kinds (spec §4.1). All map to HTTP 400.
func errInvalidBase(msg string) httpError {
	return newError("InvalidBase", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errInvalidTargetPath(msg string) httpError {
	return newError("InvalidTargetPath", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errEncodedSlash(msg string) httpError {
	return newError("EncodedSlash", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errOutsideJail(msg string) httpError {
	return newError("OutsideJail", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errInvalidEncoding(msg string) httpError {
	return newError("InvalidEncoding", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errWindowsPrefix(msg string) httpError {
	return newError("WindowsPrefix", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errBackslash(msg string) httpError {
	return newError("Backslash", http.StatusBadRequest, zapcore.WarnLevel, msg)
}

// File responder error kinds (spec §4.5, §7).
func errNotFound(msg string) httpError {
	return newError("NotFound", http.StatusNotFound, zapcore.InfoLevel, msg)
}
func errPermissionDenied(msg string) httpError {
	return newError("PermissionDenied", http.StatusForbidden, zapcore.WarnLevel, msg)
}
func errRangeUnsatisfiable(msg string) httpError {
	return newError("RangeUnsatisfiable", http.StatusRequestedRangeNotSatisfiable, zapcore.WarnLevel, msg)
}
func errIO(msg string) httpError {
	return newError("IO", http.StatusInternalServerError, zapcore.ErrorLevel, msg)
}

// needsRedirectError is not an error in the usual sense — it signals a
// directory that was requested without a trailing slash. It implements
// httpError, but handleGet writes its Location header and status
// itself rather than passing it to writeError, so it is not logged.
type needsRedirectError struct {
	location string
}

func (e *needsRedirectError) Error() string          { return "directory requires trailing slash: " + e.location }
func (e *needsRedirectError) StatusCode() int        { return http.StatusMovedPermanently }
func (e *needsRedirectError) LogLevel() zapcore.Level { return zapcore.InfoLevel }

// Upload pipeline error kinds (spec §4.4, §4.5).
func errInvalidFilename(msg string) httpError {
	return newError("InvalidFilename", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errMultipartMalformed(msg string) httpError {
	return newError("MultipartMalformed", http.StatusBadRequest, zapcore.WarnLevel, msg)
}
func errUploadConflict(msg string) httpError {
	return newError("Conflict", http.StatusConflict, zapcore.WarnLevel, msg)
}
func errParentNotDirectory(msg string) httpError {
	return newError("ParentNotDirectory", http.StatusConflict, zapcore.ErrorLevel, msg)
}
func errMissingDirectory(msg string) httpError {
	return newError("MissingDirectory", http.StatusNotFound, zapcore.ErrorLevel, msg)
}
func errPayloadTooLarge(msg string) httpError {
	return newError("PayloadTooLarge", http.StatusRequestEntityTooLarge, zapcore.ErrorLevel, msg)
}
func errUploadDisabled(msg string) httpError {
	return newError("UploadDisabled", http.StatusForbidden, zapcore.WarnLevel, msg)
}

// Middleware error kinds (spec §4.6, §7).
func errAuthRequired(realm string) httpError {
	return newError("AuthRequired", http.StatusUnauthorized, zapcore.WarnLevel, "realm "+realm)
}
func errAuthRejected(msg string) httpError {
	return newError("AuthRejected", http.StatusUnauthorized, zapcore.WarnLevel, msg)
}
func errAuthUnconfigured(msg string) httpError {
	return newError("AuthUnconfigured", http.StatusInternalServerError, zapcore.ErrorLevel, msg)
}
func errCORSForbidden(msg string) httpError {
	return newError("CORSForbidden", http.StatusForbidden, zapcore.WarnLevel, msg)
}
