package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"internmatch/handlers"
	"internmatch/models"
	"internmatch/ui"
)

var pageTitles = map[string]string{
	handlers.TemplateIndex:             "",
	handlers.TemplateRegister:          "Register",
	handlers.TemplateLogin:             "Log in",
	handlers.TemplateDashboard:         "Dashboard",
	handlers.TemplateCreateOpportunity: "Post an opportunity",
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Local().Format("2 Jan 2006 15:04")
	},
}

// Renderer holds one parsed template set per page, each layered on base.html.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	return newRenderer(ui.Files)
}

func newRenderer(files fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageTitles))}
	for name := range pageTitles {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(files, "html/base.html", "html/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data models.PageData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q does not exist", name)
	}
	if data.Title == "" {
		data.Title = pageTitles[name]
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
