// Package ui serves the analysis dashboard: a small chi application that
// lists stored runs and renders their reports as HTML.
package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goccram/app"
	"goccram/domain/core"
)

// App represents the UI application
type App struct {
	router  *chi.Mux
	service *app.AnalysisService
}

// NewApp creates a new UI application over the analysis service.
func NewApp(service *app.AnalysisService) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router exposes the handler for embedding and tests.
func (a *App) Router() http.Handler { return a.router }

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/analyses/{id}", a.handleReport)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	results, err := a.service.List(r.Context(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var body string
	if len(results) == 0 {
		body = "# Analyses\n\nNo stored analyses yet.\n"
	} else {
		body = "# Analyses\n\n"
		for _, result := range results {
			body += fmt.Sprintf("- [%s: response %s](/analyses/%s), CCRAM %.4f (%s)\n",
				result.Dataset,
				result.ResponseVariable().Name,
				result.ID,
				result.CCRAM,
				result.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
	a.writeHTML(w, body)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id := core.AnalysisID(chi.URLParam(r, "id"))
	result, err := a.service.Get(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	a.writeHTML(w, BuildReport(result))
}

// writeHTML renders a markdown document into a minimal HTML page.
func (a *App) writeHTML(w http.ResponseWriter, md string) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html><html><head><title>goccram</title>
<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem}</style>
</head><body>%s</body></html>`, rendered)
}
