// Package web serves the libsearch UI: a route table of list views whose
// navigation menu follows the visitor's current route.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/libsearch/internal/nav"
	"github.com/ziadkadry99/libsearch/internal/resource"
	"github.com/ziadkadry99/libsearch/internal/router"
)

// SessionCookie names the cookie that ties a visitor to their session.
const SessionCookie = "libsearch_session"

// MenuEntry is one configured navigation link.
type MenuEntry struct {
	Href  string
	Label string
}

// Options configures an App.
type Options struct {
	// BasePath is where the UI is mounted, e.g. "/app".
	BasePath string
	Libs     *resource.Client
	Repos    *resource.Client
	Nav      nav.Config
	Menu     []MenuEntry
	// About is markdown rendered on the about view.
	About []byte
	// RenderWait bounds how long a view waits for its collection before
	// rendering it as loading.
	RenderWait  time.Duration
	MaxSessions int
	Logger      *zap.Logger
}

// App is the UI. Each visitor gets a session with its own router, menu and
// highlighter; the route table and views are shared.
type App struct {
	opts    Options
	logger  *zap.Logger
	table   *router.Table
	clients map[string]*resource.Client
	views   map[string]*template.Template
	about   template.HTML

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id          string
	router      *router.Router
	menu        []*nav.MenuItem
	highlighter *nav.Highlighter

	// navMu serializes navigation and menu rendering.
	navMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
	// collections holds the last collection each kind's view rendered, so a
	// live subscriber waits on that fetch instead of starting another.
	collections map[string]*resource.Collection
}

// New builds the App, its route table and views.
func New(opts Options) (*App, error) {
	if opts.Libs == nil || opts.Repos == nil {
		return nil, fmt.Errorf("libs and repos clients are required")
	}
	if opts.MaxSessions < 1 {
		opts.MaxSessions = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		opts:   opts,
		logger: logger,
		clients: map[string]*resource.Client{
			kindLibs:  opts.Libs,
			kindRepos: opts.Repos,
		},
		sessions: make(map[string]*session),
	}

	table, err := a.routes()
	if err != nil {
		return nil, fmt.Errorf("building route table: %w", err)
	}
	a.table = table

	if a.views, err = parseViews(); err != nil {
		return nil, fmt.Errorf("parsing views: %w", err)
	}
	if a.about, err = renderMarkdown(opts.About); err != nil {
		return nil, fmt.Errorf("rendering about page: %w", err)
	}
	return a, nil
}

// RegisterRoutes mounts the UI under the configured base path.
func (a *App) RegisterRoutes(r chi.Router) {
	r.Route(a.opts.BasePath, func(r chi.Router) {
		r.Get("/", a.handleRoot)
		r.Get("/live/{kind}", a.handleLive)
		r.Get("/*", a.handlePage)
	})
}

// Table returns the shared route table.
func (a *App) Table() *router.Table { return a.table }

// SessionCount returns the number of live sessions.
func (a *App) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// Close detaches every session's highlighter and drops all sessions.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, s := range a.sessions {
		s.highlighter.Close()
		delete(a.sessions, id)
	}
}

// session returns the visitor's session, creating one and setting the
// cookie when the request carries none or an unknown id.
func (a *App) session(w http.ResponseWriter, r *http.Request) *session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if s, ok := a.sessions[c.Value]; ok {
			s.touch()
			return s
		}
	}

	if len(a.sessions) >= a.opts.MaxSessions {
		a.evictOldest()
	}

	s := a.newSession()
	a.sessions[s.id] = s
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.id,
		Path:     a.opts.BasePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.logger.Debug("session created", zap.String("session", s.id))
	return s
}

// lookupSession returns the visitor's existing session, or nil.
func (a *App) lookupSession(r *http.Request) *session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[c.Value]
	if ok {
		s.touch()
	}
	return s
}

func (a *App) newSession() *session {
	rt := router.New(a.table)
	menu := make([]*nav.MenuItem, len(a.opts.Menu))
	for i, e := range a.opts.Menu {
		menu[i] = nav.NewMenuItem(e.Href, e.Label)
	}
	s := &session{
		id:          uuid.New().String(),
		router:      rt,
		menu:        menu,
		highlighter: nav.New(rt, a.opts.Nav, nav.Entries(menu)),
		collections: make(map[string]*resource.Collection),
	}
	s.touch()
	return s
}

// evictOldest drops the least recently seen session. Callers hold a.mu.
func (a *App) evictOldest() {
	var (
		oldest *session
		when   time.Time
	)
	for _, s := range a.sessions {
		seen := s.seen()
		if oldest == nil || seen.Before(when) {
			oldest, when = s, seen
		}
	}
	if oldest != nil {
		oldest.highlighter.Close()
		delete(a.sessions, oldest.id)
		a.logger.Debug("session evicted", zap.String("session", oldest.id))
	}
}

func (s *session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *session) remember(kind string, col *resource.Collection) {
	s.mu.Lock()
	s.collections[kind] = col
	s.mu.Unlock()
}

func (s *session) collection(kind string) *resource.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collections[kind]
}
