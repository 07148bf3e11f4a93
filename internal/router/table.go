package router

import (
	"context"
	"fmt"
)

// Scope is the view context a controller populates for its template.
type Scope map[string]any

// Controller prepares the scope for a route. It runs once per navigation,
// after change-start listeners have been notified.
type Controller func(ctx context.Context, path string, scope Scope)

// Route binds a path to a view template and an optional controller.
type Route struct {
	Path       string
	View       string
	Controller Controller
}

// Table is the static route table. It is built once and never mutated.
type Table struct {
	routes   map[string]Route
	order    []string
	fallback string
}

// NewTable builds a route table. Unmatched paths resolve to fallback, which
// must itself be one of the registered routes.
func NewTable(fallback string, routes ...Route) (*Table, error) {
	t := &Table{
		routes:   make(map[string]Route, len(routes)),
		fallback: fallback,
	}
	for _, r := range routes {
		if r.Path == "" {
			return nil, fmt.Errorf("route with view %q has an empty path", r.View)
		}
		if _, dup := t.routes[r.Path]; dup {
			return nil, fmt.Errorf("route %q registered twice", r.Path)
		}
		t.routes[r.Path] = r
		t.order = append(t.order, r.Path)
	}
	if _, ok := t.routes[fallback]; !ok {
		return nil, fmt.Errorf("fallback route %q is not registered", fallback)
	}
	return t, nil
}

// Match returns the route registered for exactly path.
func (t *Table) Match(path string) (Route, bool) {
	r, ok := t.routes[path]
	return r, ok
}

// Resolve returns the route for path. When nothing matches it returns the
// fallback route with redirected set.
func (t *Table) Resolve(path string) (r Route, redirected bool) {
	if r, ok := t.routes[path]; ok {
		return r, false
	}
	return t.routes[t.fallback], true
}

// Fallback returns the redirect target for unmatched paths.
func (t *Table) Fallback() string { return t.fallback }

// Paths lists registered paths in registration order.
func (t *Table) Paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
