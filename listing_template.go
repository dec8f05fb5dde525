// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileserver

import (
	"bytes"
	"html/template"

	humanize "github.com/dustin/go-humanize"
)

// listingTemplateSource is the directory-listing document, per spec
// §4.2. html/template is used specifically for its automatic
// contextual escaping — every user-supplied value (names, the request
// path) must be HTML-entity-escaped, which is exactly what it does
// without any hand-rolled escaping logic.
const listingTemplateSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="{{.ServerName}} {{.Version}}">
<link rel="icon" href="/__assets/favicon.ico">
<link rel="stylesheet" href="/__assets/style.css">
<title>{{.ServerName}} | {{.RequestPath}}</title>
</head>
<body>
<h1>{{.RequestPath}}</h1>
<table>
<thead><tr><th>name</th><th>size</th><th>modified</th></tr></thead>
<tbody>
{{if .ShowParentLink}}<tr><td><a href="../">../</a></td><td></td><td></td></tr>{{end}}
{{range .Rows}}<tr><td><a href="{{.Href}}">{{.DisplayName}}</a></td><td>{{.SizeText}}</td><td>{{.ModifiedText}}</td></tr>
{{end}}</tbody>
</table>
<footer>{{.ServerName}} {{.Version}}</footer>
</body>
</html>
`

var listingTemplate = template.Must(template.New("listing").Parse(listingTemplateSource))

type listingRow struct {
	Href         string
	DisplayName  string
	SizeText     string
	ModifiedText string
}

type listingView struct {
	ServerName     string
	Version        string
	RequestPath    string
	ShowParentLink bool
	Rows           []listingRow
}

// renderListing produces the text/html body for a directory listing.
// requestPath is the request's URL path (used for the page title and
// heading, and to decide whether a parent link is shown); hrefs are
// computed relative to it, per spec §4.2's resolution of the
// href-form open question (SPEC_FULL.md, DESIGN.md).
func renderListing(serverName, requestPath string, entries []DirectoryEntry) ([]byte, error) {
	view := listingView{
		ServerName:     serverName,
		Version:        Version,
		RequestPath:    requestPath,
		ShowParentLink: requestPath != "/",
	}
	for _, e := range entries {
		row := listingRow{
			Href:        encodePathSegments(e.Name),
			DisplayName: e.Name,
			ModifiedText: e.Modified.Local().Format("2006-01-02 15:04:05"),
		}
		if e.Kind == EntryKindDir {
			row.Href += "/"
			row.DisplayName += "/"
			row.SizeText = ""
		} else {
			row.SizeText = humanize.Bytes(e.Size)
		}
		view.Rows = append(view.Rows, row)
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
