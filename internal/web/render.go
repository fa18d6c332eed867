package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/example/watchlist/internal/tmdb"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page names. Each is parsed together with the layout.
const (
	pageHome    = "home"
	pageMovie   = "movie"
	pageList    = "list"
	pageLogin   = "login"
	pageSignUp  = "signup"
	pageProfile = "profile"
)

var pageNames = []string{pageHome, pageMovie, pageList, pageLogin, pageSignUp, pageProfile}

var funcMap = template.FuncMap{
	"poster": tmdb.PosterURL,
	"rating": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"lower":  strings.ToLower,
}

// Renderer is a gin HTMLRender that executes the "base" layout of a page.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcMap).ParseFS(templateFiles, "templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	return render.HTML{Template: r.pages[name], Name: "base", Data: data}
}

// StaticFS returns the stylesheet directory served under /static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
