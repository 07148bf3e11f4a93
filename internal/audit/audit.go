package audit

import "time"

// Action describes what was done to the catalog.
type Action string

const (
	ActionImport Action = "import"
	ActionClear  Action = "clear"
)

// Entry is a single audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Kind      string    `json:"kind"`
	Count     int       `json:"count"`
	Source    string    `json:"source,omitempty"`
}
