package nav

import (
	"sort"
	"strings"
	"sync"
)

// MenuItem is a rendered menu entry. It implements Element.
type MenuItem struct {
	Href  string
	Label string

	mu      sync.Mutex
	classes map[string]struct{}
}

// NewMenuItem creates an item with no classes.
func NewMenuItem(href, label string) *MenuItem {
	return &MenuItem{Href: href, Label: label}
}

func (m *MenuItem) AddClass(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.classes == nil {
		m.classes = make(map[string]struct{})
	}
	m.classes[name] = struct{}{}
}

func (m *MenuItem) RemoveClass(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.classes, name)
}

// HasClass reports whether name is currently set.
func (m *MenuItem) HasClass(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.classes[name]
	return ok
}

// Class renders the class attribute value, sorted for stable output.
func (m *MenuItem) Class() string {
	m.mu.Lock()
	names := make([]string, 0, len(m.classes))
	for n := range m.classes {
		names = append(names, n)
	}
	m.mu.Unlock()
	sort.Strings(names)
	return strings.Join(names, " ")
}

// Entries adapts items to highlighter entries, preserving order.
func Entries(items []*MenuItem) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = Entry{Href: it.Href, Element: it}
	}
	return out
}
