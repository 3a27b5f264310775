// Package web embeds the HTML templates and static assets served by the view layer.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page and partial; each page is addressable by file name.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// MustTemplates panics on parse errors; templates are compiled into the binary.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static returns the static asset tree rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
