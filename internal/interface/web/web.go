// Package web holds the HTML pages rendered by the user handlers.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var FS embed.FS

// Page template names.
const (
	IndexPage = "index"
	AddPage   = "add_users"
	EditPage  = "edit_users"
)

var funcs = template.FuncMap{
	"initial": func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return "?"
		}
		return strings.ToUpper(string([]rune(s)[:1]))
	},
}

// Templates parses every page and partial. Pages are addressed by the
// names above.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(FS, "templates/*.tmpl")
}
