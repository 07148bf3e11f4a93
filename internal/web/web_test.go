package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/libsearch/internal/catalog"
	"github.com/ziadkadry99/libsearch/internal/db"
	"github.com/ziadkadry99/libsearch/internal/nav"
	"github.com/ziadkadry99/libsearch/internal/resource"
	"github.com/ziadkadry99/libsearch/internal/router"
)

var defaultMenu = []MenuEntry{
	{Href: "/libs", Label: "Libraries"},
	{Href: "/repos", Label: "Repositories"},
	{Href: "/about", Label: "About"},
}

// catalogServer serves a seeded catalog API.
func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	store := catalog.NewStore(database)
	ctx := context.Background()
	_, err = store.Add(ctx, catalog.KindLibs, map[string]any{"name": "chi", "description": "lightweight router", "url": "https://go-chi.io"})
	require.NoError(t, err)
	_, err = store.Add(ctx, catalog.KindLibs, map[string]any{"name": "zap"})
	require.NoError(t, err)
	_, err = store.Add(ctx, catalog.KindRepos, map[string]any{"full_name": "go-chi/chi"})
	require.NoError(t, err)

	r := chi.NewRouter()
	catalog.RegisterRoutes(r, store)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T, apiURL string, mutate func(*Options)) (*App, *httptest.Server) {
	t.Helper()
	opts := Options{
		BasePath:    "/app",
		Libs:        resource.Libs(apiURL),
		Repos:       resource.Repos(apiURL),
		Nav:         nav.Config{Mode: nav.ModePath},
		Menu:        defaultMenu,
		RenderWait:  5 * time.Second,
		MaxSessions: 16,
	}
	if mutate != nil {
		mutate(&opts)
	}
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	r := chi.NewRouter()
	app.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return app, srv
}

// browser keeps the session cookie and does not follow redirects.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, url string) (int, http.Header, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header, string(body)
}

func activeEntry(href, label string) string {
	return `<li class="on"><a href="` + href + `">` + label + `</a></li>`
}

func inactiveEntry(href, label string) string {
	return `<li><a href="` + href + `">` + label + `</a></li>`
}

func TestLibsView(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, nil)
	c := browser(t)

	code, _, body := get(t, c, srv.URL+"/app/libs")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<title>Libraries · libsearch</title>")
	assert.Contains(t, body, `<a href="https://go-chi.io"><strong>chi</strong></a>`)
	assert.Contains(t, body, `<div class="desc">lightweight router</div>`)
	assert.Contains(t, body, "<strong>zap</strong>")
	assert.Contains(t, body, activeEntry("/app/libs", "Libraries"))
	assert.Contains(t, body, inactiveEntry("/app/repos", "Repositories"))
	assert.NotContains(t, body, "Loading")

	// isActive marks the libs tab only.
	assert.Contains(t, body, `<a href="/app/libs" class="active">Libraries</a>`)
	assert.Contains(t, body, `<a href="/app/repos">Repositories</a>`)
}

func TestNavigationMovesHighlight(t *testing.T) {
	api := catalogServer(t)
	app, srv := newApp(t, api.URL, nil)
	c := browser(t)

	_, _, body := get(t, c, srv.URL+"/app/libs")
	assert.Contains(t, body, activeEntry("/app/libs", "Libraries"))

	_, _, body = get(t, c, srv.URL+"/app/repos")
	assert.Contains(t, body, activeEntry("/app/repos", "Repositories"))
	assert.Contains(t, body, inactiveEntry("/app/libs", "Libraries"))
	assert.Contains(t, body, "<strong>go-chi/chi</strong>")
	assert.Equal(t, 1, strings.Count(body, `class="on"`))

	_, _, body = get(t, c, srv.URL+"/app/libs")
	assert.Contains(t, body, activeEntry("/app/libs", "Libraries"))
	assert.Contains(t, body, inactiveEntry("/app/repos", "Repositories"))

	assert.Equal(t, 1, app.SessionCount())
}

func TestUnmatchedPathRedirects(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, nil)
	c := browser(t)

	for _, path := range []string{"/app/unknown", "/app", "/app/", "/app/repos/"} {
		code, hdr, _ := get(t, c, srv.URL+path)
		assert.Equal(t, http.StatusFound, code, path)
		assert.Equal(t, "/app/libs", hdr.Get("Location"), path)
	}
}

func TestStickyHighlightForUnlistedRoute(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, func(o *Options) {
		o.Menu = defaultMenu[:2]
	})
	c := browser(t)

	get(t, c, srv.URL+"/app/repos")
	code, _, body := get(t, c, srv.URL+"/app/about")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, activeEntry("/app/repos", "Repositories"))
	assert.Contains(t, body, "About libsearch")
}

func TestHashModeMenu(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, func(o *Options) {
		o.Nav = nav.Config{Mode: nav.ModeHash, ActiveClass: "active"}
		o.Menu = []MenuEntry{
			{Href: "#/libs", Label: "Libraries"},
			{Href: "#!/repos", Label: "Repositories"},
		}
	})
	c := browser(t)

	_, _, body := get(t, c, srv.URL+"/app/repos")
	assert.Contains(t, body, `<li class="active"><a href="/app/repos">Repositories</a></li>`)
	assert.Contains(t, body, inactiveEntry("/app/libs", "Libraries"))
}

func TestFailedFetchRendersEmpty(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	_, srv := newApp(t, broken.URL, nil)
	code, _, body := get(t, browser(t), srv.URL+"/app/repos")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Nothing here yet.")
	assert.NotContains(t, body, "Loading")
}

// dialLive opens the live socket for kind with the browser's session cookie.
func dialLive(t *testing.T, c *http.Client, srvURL, kind string) *websocket.Conn {
	t.Helper()
	d := websocket.Dialer{Jar: c.Jar, HandshakeTimeout: 5 * time.Second}
	conn, _, err := d.Dial("ws"+strings.TrimPrefix(srvURL, "http")+"/app/live/"+kind, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readLive(t *testing.T, conn *websocket.Conn) liveMessage {
	t.Helper()
	var msg liveMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPendingViewAndLiveUpdate(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }

	var hits atomic.Int32
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(`[{"name":"late-lib","url":"https://example.com/late"}]`))
	}))
	defer slow.Close()
	defer unblock()

	_, srv := newApp(t, slow.URL, func(o *Options) { o.RenderWait = 0 })
	c := browser(t)

	code, _, body := get(t, c, srv.URL+"/app/libs")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Loading…")
	assert.Contains(t, body, `"/app/live/libs"`)
	assert.NotContains(t, body, "late-lib")
	// Late items get the same link as server-rendered ones.
	assert.Contains(t, body, "var href = it.url || it.html_url || it.homepage;")
	assert.Contains(t, body, "document.createElement('a')")

	conn := dialLive(t, c, srv.URL, "libs")
	unblock()

	msg := readLive(t, conn)
	assert.Equal(t, "libs", msg.Kind)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "late-lib", msg.Items[0]["name"])
	assert.Equal(t, int32(1), hits.Load(), "live update must reuse the view's fetch")
}

func TestLiveUpdateWaitsForViewFetch(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }

	var hits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			<-release
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"name":"from-second-fetch"}]`))
	}))
	defer api.Close()
	defer unblock()

	_, srv := newApp(t, api.URL, func(o *Options) { o.RenderWait = 0 })
	c := browser(t)

	_, _, body := get(t, c, srv.URL+"/app/libs")
	assert.Contains(t, body, "Loading…")

	conn := dialLive(t, c, srv.URL, "libs")
	unblock()

	msg := readLive(t, conn)
	assert.Empty(t, msg.Items)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLiveWithoutViewSendsEmpty(t *testing.T) {
	var hits atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"name":"chi"}]`))
	}))
	defer api.Close()

	_, srv := newApp(t, api.URL, nil)
	c := browser(t)

	msg := readLive(t, dialLive(t, c, srv.URL, "repos"))
	assert.Equal(t, "repos", msg.Kind)
	assert.NotNil(t, msg.Items)
	assert.Empty(t, msg.Items)
	assert.Equal(t, int32(0), hits.Load())
}

func TestLibsControllerIsActiveExactMatch(t *testing.T) {
	api := catalogServer(t)
	app, _ := newApp(t, api.URL, nil)

	scope := router.Scope{}
	app.libsController(context.Background(), "/libs", scope)

	isActive, ok := scope["isActive"].(func(string) bool)
	require.True(t, ok)
	assert.True(t, isActive("/libs"))
	assert.False(t, isActive("/libs/"))
	assert.False(t, isActive("/Libs"))
	assert.False(t, isActive(""))
	assert.False(t, isActive("/repos"))

	col, ok := scope["libs"].(*resource.Collection)
	require.True(t, ok)
	<-col.Done()
	assert.Equal(t, 2, col.Len())
}

func TestLiveUnknownKind(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, nil)
	code, _, _ := get(t, browser(t), srv.URL+"/app/live/books")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSessionEviction(t *testing.T) {
	api := catalogServer(t)
	app, srv := newApp(t, api.URL, func(o *Options) { o.MaxSessions = 2 })

	for i := 0; i < 5; i++ {
		code, _, _ := get(t, browser(t), srv.URL+"/app/about")
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, 2, app.SessionCount())

	app.Close()
	assert.Equal(t, 0, app.SessionCount())
}

func TestCustomAbout(t *testing.T) {
	api := catalogServer(t)
	_, srv := newApp(t, api.URL, func(o *Options) {
		o.About = []byte("# Team catalog\n\nMaintained by *platform*.\n\n<script>alert(1)</script>\n")
	})
	_, _, body := get(t, browser(t), srv.URL+"/app/about")
	assert.Contains(t, body, `<h1 id="team-catalog">Team catalog</h1>`)
	assert.Contains(t, body, "<em>platform</em>")
	assert.NotContains(t, body, "alert(1)")
}

func TestNewRequiresClients(t *testing.T) {
	_, err := New(Options{BasePath: "/app"})
	assert.Error(t, err)
}

func TestItemHelpers(t *testing.T) {
	it := resource.Item{"full_name": "go-chi/chi", "html_url": "https://github.com/go-chi/chi", "stars": float64(17000)}
	assert.Equal(t, "go-chi/chi", itemTitle(it))
	assert.Equal(t, "https://github.com/go-chi/chi", itemURL(it))
	assert.Equal(t, "17000", itemField(it, "stars"))
	assert.Equal(t, "", itemField(it, "missing"))
	assert.Equal(t, "(untitled)", itemTitle(resource.Item{}))
	assert.Contains(t, itemJSON(it), `"full_name":"go-chi/chi"`)
}
