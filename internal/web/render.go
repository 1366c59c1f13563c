// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/samber/oops"

	"github.com/quillpad/quillpad/internal/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageData is what every template renders from.
type pageData struct {
	Title   string
	User    *auth.User
	Flashes []Flash
	Errors  auth.FieldErrors
	Form    url.Values
	Data    any
}

// renderer holds one parsed template per page, each combined with the
// shared layout.
type renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// templateFuncs are helpers available to all templates.
var templateFuncs = template.FuncMap{
	"fieldErr": func(errs auth.FieldErrors, name string) string {
		return errs.ByField(name)
	},
	"formval": func(form url.Values, name string) string {
		if form == nil {
			return ""
		}
		return form.Get(name)
	},
}

// newRenderer parses every page template against the shared layout.
func newRenderer(logger *slog.Logger) (*renderer, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, oops.Code("TEMPLATES_READ_FAILED").Wrap(err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, oops.Code("TEMPLATE_PARSE_FAILED").
				With("template", name).
				Wrap(err)
		}
		pages[name] = tmpl
	}
	return &renderer{pages: pages, logger: logger}, nil
}

// render writes a page. The layout pulls the page's content block.
func (rd *renderer) render(w http.ResponseWriter, status int, page string, data *pageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &pageData{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		rd.logger.Error("template execution failed", "page", page, "error", err)
	}
}
