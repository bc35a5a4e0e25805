package controllers

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Pages rendered by the controllers.
const (
	PageHome     = "home"
	PagePost     = "post_detail"
	PageCategory = "category_posts"
	PageAuthor   = "author_posts"
	PageArchive  = "archive"
	PageAbout    = "about"
	PageError    = "error"
)

var pageNames = []string{PageHome, PagePost, PageCategory, PageAuthor, PageArchive, PageAbout, PageError}

// Renderer draws a named page.
type Renderer interface {
	Render(w io.Writer, page string, data interface{}) error
}

// TemplateRenderer renders pages from html/template files. Every page is
// parsed together with layout.html and the shared partials.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// LoadTemplates parses every page under dir.
func LoadTemplates(dir string) (*TemplateRenderer, error) {
	partials, err := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		files := append([]string{
			filepath.Join(dir, "layout.html"),
			filepath.Join(dir, "pages", name+".html"),
		}, partials...)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render implements Renderer.
func (tr *TemplateRenderer) Render(w io.Writer, page string, data interface{}) error {
	tmpl, ok := tr.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("January 02, 2006")
	},
	"lower": strings.ToLower,
}
