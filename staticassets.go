// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Contains the static asset table (C8): a small, fixed, embedded set
// of bytes the server needs regardless of what it is publishing —
// the listing's style sheet and folder/file icon, and a favicon for
// browsers that request one unprompted. None of the teacher's
// repository embedded assets (it had none to serve itself); this is
// enrichment from caddyserver-caddy's use of //go:embed for its
// bundled default error pages and static files.
package fileserver

import (
	"embed"
	"net/http"
)

//go:embed assets/style.css assets/icon.svg assets/favicon.ico
var embeddedAssets embed.FS

// staticAssetPrefix is the reserved request-path prefix routed to C8
// (spec §4.5: "GET /__<static-prefix>/<*path>").
const staticAssetPrefix = "/__assets/"

// staticAsset is one entry of the fixed keyed table.
type staticAsset struct {
	path        string
	contentType string
}

var staticAssetTable = map[string]staticAsset{
	"style.css":   {path: "assets/style.css", contentType: "text/css; charset=utf-8"},
	"icon.svg":    {path: "assets/icon.svg", contentType: "image/svg+xml"},
	"favicon.ico": {path: "assets/favicon.ico", contentType: "image/x-icon"},
}

// serveStaticAsset looks key up in staticAssetTable and writes it with
// a one-year cache lifetime, or 404 if key is unknown.
func serveStaticAsset(w http.ResponseWriter, key string) {
	asset, ok := staticAssetTable[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	data, err := embeddedAssets.ReadFile(asset.path)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", asset.contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// faviconBytes returns the favicon's bytes and content type for the
// router's favicon fallback (spec §4.5), which bypasses the keyed
// lookup by name since it's reached from a 404 file path, not a
// /__assets/ request.
func faviconBytes() ([]byte, string) {
	return mustReadAsset("assets/favicon.ico"), "image/x-icon"
}

func mustReadAsset(path string) []byte {
	data, err := embeddedAssets.ReadFile(path)
	if err != nil {
		panic(err) // assets are compiled in; a read failure is a build defect
	}
	return data
}
