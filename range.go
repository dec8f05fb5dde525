// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"strconv"
	"strings"
)

// byteRange is an inclusive [Start, End] span of a file of known size.
type byteRange struct {
	Start, End int64 // 0-indexed, inclusive, always within [0, size)
}

// Len reports how many bytes this range covers.
func (r byteRange) Len() int64 { return r.End - r.Start + 1 }

// parseByteRange parses the Range header value rangeHeader (the full
// "bytes=..." string) against a file of the given size, per RFC 7233's
// single- and suffix-range grammar. Only the first range in a
// comma-separated list is honored; multipart ranges are out of scope
// (spec §4.3) and net/http's own http.ServeContent, which supports
// them, is therefore not used here — this is a narrower, hand-rolled
// implementation built to the letter of the spec instead.
func parseByteRange(rangeHeader string, size int64) (*byteRange, error) {
	const prefix = "bytes="
	if !strings.HasPrefix(rangeHeader, prefix) {
		return nil, errRangeUnsatisfiable("missing 'bytes=' prefix")
	}
	spec := rangeHeader[len(prefix):]

	// Only the first range of a comma-separated list is honored.
	if idx := strings.IndexByte(spec, ','); idx >= 0 {
		spec = spec[:idx]
	}
	spec = strings.TrimSpace(spec)

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return nil, errRangeUnsatisfiable("missing '-' in range spec")
	}
	startStr, endStr := spec[:dash], spec[dash+1:]

	if size <= 0 {
		return nil, errRangeUnsatisfiable("empty file")
	}

	if startStr == "" {
		// Suffix range: bytes=-N selects the last N bytes.
		if endStr == "" {
			return nil, errRangeUnsatisfiable("empty suffix range")
		}
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return nil, errRangeUnsatisfiable("invalid suffix length")
		}
		if n > size {
			n = size
		}
		return &byteRange{Start: size - n, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, errRangeUnsatisfiable("invalid range start")
	}
	if start >= size {
		return nil, errRangeUnsatisfiable("range start beyond end of file")
	}

	end := size - 1
	if endStr != "" {
		parsedEnd, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || parsedEnd < start {
			return nil, errRangeUnsatisfiable("invalid range end")
		}
		end = parsedEnd
		if end > size-1 {
			end = size - 1
		}
	}

	return &byteRange{Start: start, End: end}, nil
}
