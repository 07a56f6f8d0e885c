// Package web holds the embedded HTML pages. Rendering is intentionally
// minimal: the dashboards are thin shells over the JSON API.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page set once.
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}
