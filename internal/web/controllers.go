package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/libsearch/internal/nav"
	"github.com/ziadkadry99/libsearch/internal/resource"
	"github.com/ziadkadry99/libsearch/internal/router"
)

const (
	kindLibs  = "libs"
	kindRepos = "repos"

	viewLibs  = "libs.html"
	viewRepos = "repos.html"
	viewAbout = "about.html"
)

// routes builds the route table. Unmatched paths fall back to /libs.
func (a *App) routes() (*router.Table, error) {
	return router.NewTable("/libs",
		router.Route{Path: "/libs", View: viewLibs, Controller: a.libsController},
		router.Route{Path: "/repos", View: viewRepos, Controller: a.reposController},
		router.Route{Path: "/about", View: viewAbout},
	)
}

// libsController exposes the libs collection and an isActive predicate that
// compares a route with the current path exactly.
func (a *App) libsController(ctx context.Context, path string, scope router.Scope) {
	scope[kindLibs] = a.opts.Libs.Query(context.WithoutCancel(ctx))
	scope["isActive"] = func(route string) bool {
		return route == path
	}
}

func (a *App) reposController(ctx context.Context, path string, scope router.Scope) {
	scope[kindRepos] = a.opts.Repos.Query(context.WithoutCancel(ctx))
}

func (a *App) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, a.opts.BasePath+a.table.Fallback(), http.StatusFound)
}

func (a *App) handlePage(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "*")
	if _, ok := a.table.Match(path); !ok {
		http.Redirect(w, r, a.opts.BasePath+a.table.Fallback(), http.StatusFound)
		return
	}

	s := a.session(w, r)
	s.navMu.Lock()
	defer s.navMu.Unlock()

	view, err := s.router.Navigate(r.Context(), path)
	if err != nil {
		a.logger.Debug("navigation aborted", zap.String("path", path), zap.Error(err))
		return
	}

	data := a.pageData(r.Context(), s, view)
	tmpl, ok := a.views[view.Route.View]
	if !ok {
		http.Error(w, "view not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		a.logger.Error("rendering view", zap.String("view", view.Route.View), zap.Error(err))
	}
}

// menuLink is a rendered navigation entry.
type menuLink struct {
	URL   string
	Label string
	Class string
}

// pageData is what every view template receives.
type pageData struct {
	Title    string
	BasePath string
	Path     string
	Menu     []menuLink

	Kind    string
	Items   []resource.Item
	Pending bool
	LiveURL string

	IsActive func(string) bool
	About    template.HTML
}

func (a *App) pageData(ctx context.Context, s *session, view *router.View) pageData {
	data := pageData{
		Title:    titles[view.Route.View],
		BasePath: a.opts.BasePath,
		Path:     view.Path,
		Menu:     a.menuLinks(s.menu),
		IsActive: func(string) bool { return false },
		About:    a.about,
	}
	if fn, ok := view.Scope["isActive"].(func(string) bool); ok {
		data.IsActive = fn
	}

	for _, kind := range []string{kindLibs, kindRepos} {
		col, ok := view.Scope[kind].(*resource.Collection)
		if !ok {
			continue
		}
		s.remember(kind, col)
		data.Kind = kind
		data.Pending = !a.await(ctx, col)
		data.Items = col.Items()
		data.LiveURL = a.opts.BasePath + "/live/" + kind
	}
	return data
}

// await waits up to RenderWait for col and reports whether it resolved.
func (a *App) await(ctx context.Context, col *resource.Collection) bool {
	if col.Resolved() {
		return true
	}
	if a.opts.RenderWait <= 0 {
		return false
	}
	timer := time.NewTimer(a.opts.RenderWait)
	defer timer.Stop()
	select {
	case <-col.Done():
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (a *App) menuLinks(items []*nav.MenuItem) []menuLink {
	out := make([]menuLink, len(items))
	for i, it := range items {
		out[i] = menuLink{
			URL:   a.opts.BasePath + nav.LinkKey(it.Href, a.opts.Nav.Mode),
			Label: it.Label,
			Class: it.Class(),
		}
	}
	return out
}

var titles = map[string]string{
	viewLibs:  "Libraries",
	viewRepos: "Repositories",
	viewAbout: "About",
}
