package catalog

import "time"

// Kind names one of the collections served by the catalog.
type Kind string

const (
	KindLibs  Kind = "libs"
	KindRepos Kind = "repos"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{KindLibs, KindRepos}

// Valid reports whether k is a known collection.
func (k Kind) Valid() bool {
	return k == KindLibs || k == KindRepos
}

// Record is a stored collection item. Data is opaque to the catalog.
type Record struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}
