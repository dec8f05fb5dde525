// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Contains the streaming multipart upload pipeline (C4). Grounded on
// the teacher's upload.go (ServeMultipartUpload, WriteOneHttpBlob,
// splitInDirectoryAndFilename) and filename.go, generalized from a
// single Caddy-scoped destination to the jail-resolved UploadRoot of
// spec §3, and from the teacher's O_TMPFILE/linkat write protocol to
// internal/atomicfile's named-temporary one.
package fileserver

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"blitznote.com/src/fileserver/internal/atomicfile"
)

// maxUploadFilenameBytes is the per-component and per-filename length
// cap from spec §4.4.
const maxUploadFilenameBytes = 255

// handleUpload implements C4 end to end: it reads cfg.EnableUpload,
// parses the multipart body, applies the filename and directory
// policies, streams the first file field to disk under enforcement of
// cfg.MaxRequestBytes, and replies 204 on success. requestDir is the
// request path's directory prefix (still percent-encoded as received,
// no leading or trailing slash, "" for the root) under which the
// filename is composed; composeUploadTarget rejects '.' and '..'
// components and resolves the result through the jail.
func handleUpload(log *zap.Logger, cfg *ServerConfig, w http.ResponseWriter, r *http.Request, requestDir string) httpError {
	if !cfg.EnableUpload {
		return errUploadDisabled("uploads are disabled")
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return errMultipartMalformed(err.Error())
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			// No file field was found at all; nothing to do, but the
			// request wasn't malformed either. Spec §4.4's iteration
			// rule only speaks to skipping fields once the first file
			// has been handled, so an upload with zero file fields is
			// simply a no-op success.
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
		if err != nil {
			return errMultipartMalformed(err.Error())
		}

		// part.FileName() would reduce "a/b.txt" to "b.txt"; the filename
		// policy checks the name exactly as the client sent it.
		var originalName string
		if _, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition")); err == nil {
			originalName = params["filename"]
		}
		if originalName == "" {
			part.Close()
			continue
		}

		targetPath, herr := composeUploadTarget(cfg, requestDir, originalName)
		if herr != nil {
			part.Close()
			return herr
		}

		if herr := ensureUploadParentDirectory(cfg, targetPath); herr != nil {
			part.Close()
			return herr
		}

		contentLength, _ := strconv.ParseInt(part.Header.Get("Content-Length"), 10, 64)
		herr = streamUploadedPart(log, cfg, targetPath, part, contentLength)
		part.Close()
		if herr != nil {
			return herr
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// composeUploadTarget implements the filename policy, steps 1-6.
func composeUploadTarget(cfg *ServerConfig, requestDir, originalName string) (*JailedPath, httpError) {
	sanitized, herr := sanitizeUploadFilename(cfg, originalName)
	if herr != nil {
		return nil, herr
	}

	// Step 2: a literal '%' in the sanitized name must not later be
	// mistaken by resolve() for the start of a percent-encoding.
	escaped := strings.ReplaceAll(sanitized, "%", "%25")

	if cfg.PrependTimestamp {
		escaped = time.Now().UTC().Format("20060102_150405_") + escaped
	}

	baseName := escaped
	if requestDir != "" {
		baseName = requestDir + "/" + escaped
	}

	for _, c := range strings.Split(baseName, "/") {
		if c == "." || c == ".." {
			return nil, errInvalidFilename("path component must not be '.' or '..'")
		}
		if len(c) > maxUploadFilenameBytes {
			return nil, errInvalidFilename("path component exceeds 255 bytes")
		}
	}

	jailed, err := resolve(cfg.UploadRoot, baseName)
	if err != nil {
		return nil, err.(httpError)
	}
	return jailed, nil
}

// sanitizeUploadFilename implements filename policy step 1: spec.md
// §4.4 is exhaustive here — non-empty, at most 255 bytes, and
// containing neither '/' nor '\'. Nothing else disqualifies a
// filename unless the deployment opted into the stricter alphabet
// check via cfg.RestrictFilenameAlphabet.
func sanitizeUploadFilename(cfg *ServerConfig, name string) (string, httpError) {
	if name == "" {
		return "", errInvalidFilename("filename must not be empty")
	}
	if len(name) > maxUploadFilenameBytes {
		return "", errInvalidFilename("filename exceeds 255 bytes")
	}
	if strings.ContainsAny(name, "/\\") {
		return "", errInvalidFilename("filename must not contain '/' or '\\'")
	}
	if cfg.RestrictFilenameAlphabet && !inAlphabet(name) {
		return "", errInvalidFilename("filename contains a disallowed character")
	}
	return name, nil
}

// ensureUploadParentDirectory implements the directory policy.
func ensureUploadParentDirectory(cfg *ServerConfig, target *JailedPath) httpError {
	parent := parentOf(target.Abs)

	info, err := os.Stat(parent)
	switch {
	case err == nil:
		if !info.IsDir() {
			return errParentNotDirectory("upload target's parent is not a directory")
		}
		return nil
	case os.IsNotExist(err):
		if !cfg.CreateDirectories {
			return errMissingDirectory("upload target's parent directory does not exist")
		}
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return errIO(err.Error())
		}
		return nil
	default:
		return errIO(err.Error())
	}
}

func parentOf(path string) string {
	idx := strings.LastIndexByte(path, os.PathSeparator)
	if idx <= 0 {
		return string(os.PathSeparator)
	}
	return path[:idx]
}

// streamUploadedPart implements the write protocol and size
// enforcement for one multipart field.
func streamUploadedPart(log *zap.Logger, cfg *ServerConfig, target *JailedPath, part *multipart.Part, contentLength int64) httpError {
	var (
		w   *atomicfile.Writer
		err error
	)
	if cfg.PreventOverwrite {
		w, err = atomicfile.CreateExclusive(target.Abs, 0o640)
		if err != nil {
			if os.IsExist(err) {
				return errUploadConflict("target already exists")
			}
			return errIO(err.Error())
		}
	} else {
		w, err = atomicfile.CreateTemp(target.Abs, time.Now().UnixNano(), 0o640)
		if err != nil {
			return errIO(err.Error())
		}
	}
	defer w.Zap()

	if contentLength > 0 {
		w.SizeWillBe(contentLength)
	}

	cr := &limitedUploadReader{r: part, limit: cfg.MaxRequestBytes}
	if _, err := io.Copy(w, cr); err != nil {
		if err == errUploadTooLarge {
			return errPayloadTooLarge("upload exceeded the configured size limit")
		}
		if log != nil {
			log.Warn("upload: stream terminated early", zap.String("target", target.Abs), zap.Error(err))
		}
		return errIO(err.Error())
	}

	if err := w.Persist(); err != nil {
		return errIO(err.Error())
	}
	return nil
}

// limitedUploadReader enforces cfg.MaxRequestBytes against bytes
// actually streamed, not any advertised Content-Length (spec §4.4).
type limitedUploadReader struct {
	r     io.Reader
	limit uint64
	n     uint64
}

var errUploadTooLarge = &uploadTooLargeError{}

type uploadTooLargeError struct{}

func (e *uploadTooLargeError) Error() string { return "upload: payload exceeds configured limit" }

func (lr *limitedUploadReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	lr.n += uint64(n)
	if lr.n > lr.limit {
		return n, errUploadTooLarge
	}
	return n, err
}
