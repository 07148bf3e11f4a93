// Package nav keeps one navigation menu entry marked active as the router
// moves between paths.
package nav

import (
	"regexp"
	"sync"

	"github.com/ziadkadry99/libsearch/internal/router"
)

// Mode is the routing mode the menu links are written for.
type Mode string

const (
	// ModePath uses hrefs such as "/libs" as lookup keys verbatim.
	ModePath Mode = "path"
	// ModeHash strips a "#..." route prefix, so "#/libs" and "#!/libs" both key as "/libs".
	ModeHash Mode = "hash"
)

// DefaultActiveClass is applied when Config.ActiveClass is empty.
const DefaultActiveClass = "on"

var hashPrefix = regexp.MustCompile(`^#[^/]*`)

// Element is a menu entry whose CSS classes the highlighter toggles.
type Element interface {
	AddClass(name string)
	RemoveClass(name string)
}

// Entry pairs a link href with the element that should be highlighted when
// the router reaches it.
type Entry struct {
	Href    string
	Element Element
}

// Config controls key derivation and the class name toggled.
type Config struct {
	Mode        Mode
	ActiveClass string
}

// Notifier is the subscription side of a router.
type Notifier interface {
	OnChangeStart(fn router.Listener) (unsubscribe func())
}

// Highlighter marks the entry matching the current route. Paths with no
// matching entry leave the previous highlight in place.
type Highlighter struct {
	class       string
	entries     map[string]Element
	unsubscribe func()

	mu      sync.Mutex
	current Element
}

// LinkKey derives the lookup key for href under mode.
func LinkKey(href string, mode Mode) string {
	if mode == ModeHash {
		return hashPrefix.ReplaceAllString(href, "")
	}
	return href
}

// New builds the key mapping from entries and subscribes to n. A later entry
// with the same key replaces an earlier one. The mapping is fixed for the
// highlighter's lifetime.
func New(n Notifier, cfg Config, entries []Entry) *Highlighter {
	class := cfg.ActiveClass
	if class == "" {
		class = DefaultActiveClass
	}

	h := &Highlighter{
		class:   class,
		entries: make(map[string]Element, len(entries)),
	}
	for _, e := range entries {
		h.entries[LinkKey(e.Href, cfg.Mode)] = e.Element
	}
	h.unsubscribe = n.OnChangeStart(h.handle)
	return h
}

func (h *Highlighter) handle(c router.Change) {
	el, ok := h.entries[c.To]
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		h.current.RemoveClass(h.class)
	}
	h.current = el
	h.current.AddClass(h.class)
}

// Lookup returns the element registered under key.
func (h *Highlighter) Lookup(key string) (Element, bool) {
	el, ok := h.entries[key]
	return el, ok
}

// Len reports the number of distinct keys.
func (h *Highlighter) Len() int { return len(h.entries) }

// Active returns the currently highlighted element, or nil.
func (h *Highlighter) Active() Element {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Class returns the CSS class this highlighter toggles.
func (h *Highlighter) Class() string { return h.class }

// Close detaches the highlighter from its router.
func (h *Highlighter) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}
