// Package web holds the HTML views and static assets served by the app.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
}

// Templates parses the embedded views. Each is addressed by its file name,
// e.g. "index.html".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html"))
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
