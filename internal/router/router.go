package router

import (
	"context"
	"sync"
)

// Change describes a navigation that is about to activate a new view.
type Change struct {
	From string
	To   string
}

// Listener receives route change notifications.
type Listener func(Change)

// View is the result of a completed navigation.
type View struct {
	Route Route
	Path  string
	Scope Scope
	// RedirectedFrom is set when Path was reached through the fallback.
	RedirectedFrom string
}

type subscription struct {
	id int
	fn Listener
}

// Router drives navigation over a Table and notifies subscribers before each
// view is activated.
type Router struct {
	table *Table

	mu        sync.Mutex
	current   string
	nextID    int
	listeners []subscription
}

// New creates a Router over the given table. No path is current until the
// first Navigate.
func New(table *Table) *Router {
	return &Router{table: table}
}

// Table returns the route table this router navigates.
func (r *Router) Table() *Table { return r.table }

// Path returns the current path.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnChangeStart registers fn to run before every view activation. The
// returned function removes the registration; calling it twice is harmless.
func (r *Router) OnChangeStart(fn Listener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners = append(r.listeners, subscription{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, s := range r.listeners {
				if s.id == id {
					r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Navigate moves to path. Listeners see a change start for path first; when
// the table has no route for it they see a second change start for the
// fallback. The selected route's controller then fills the view scope.
func (r *Router) Navigate(ctx context.Context, path string) (*View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.start(path)

	route, redirected := r.table.Resolve(path)
	view := &View{Route: route, Path: route.Path, Scope: Scope{}}
	if redirected {
		view.RedirectedFrom = path
		r.start(route.Path)
	}

	if route.Controller != nil {
		route.Controller(ctx, view.Path, view.Scope)
	}
	return view, nil
}

func (r *Router) start(to string) {
	r.mu.Lock()
	ch := Change{From: r.current, To: to}
	r.current = to
	listeners := make([]subscription, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, s := range listeners {
		s.fn(ch)
	}
}
