package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var files embed.FS

// Templates holds one parsed tree per page, each on top of the shared layout.
type Templates struct {
	pages map[string]*template.Template
}

func (t *Templates) ExecuteTemplate(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

var funcs = template.FuncMap{
	"hours": func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"add":   func(a, b int) int { return a + b },
}

// LoadTemplates parses the embedded pages. Each page gets its own clone of
// the layout so {{define "content"}} does not collide.
func LoadTemplates() (*Templates, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := map[string]*template.Template{}
	for _, f := range names {
		name := path.Base(f)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(files, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = clone
	}
	return &Templates{pages: pages}, nil
}
