package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/angelmondragon/inventory/internal/inventory"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const layoutFile = "templates/layout.gohtml"

// ErrorView is the page shown for requests that end in an error.
type ErrorView struct {
	Title   string `json:"title"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (ErrorView) ViewName() string { return "error" }

// Renderer executes the page templates. Each page is parsed together with the
// shared layout so every page can define its own "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page. Links built by the templates are prefixed
// with basePath.
func New(basePath string) (*Renderer, error) {
	funcs := template.FuncMap{
		"unescape": inventory.Unescape,
		"link": func(p string) string {
			return Link(basePath, p)
		},
	}

	files, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".gohtml")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Has reports whether a page exists for the view name.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes the page for v. Output is buffered so a failing template
// never leaves a half written page.
func (r *Renderer) Render(w io.Writer, v inventory.View) error {
	tmpl, ok := r.pages[v.ViewName()]
	if !ok {
		return fmt.Errorf("no template for view %q", v.ViewName())
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("executing template %s: %w", v.ViewName(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Link joins the mount path and a path relative to it.
func Link(basePath, p string) string {
	base := strings.TrimSuffix(basePath, "/")
	if p == "" || p == "/" {
		if base == "" {
			return "/"
		}
		return base
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}
