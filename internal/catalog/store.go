package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/libsearch/internal/db"
)

// Store persists catalog records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add stores data as a new record of kind and returns it.
func (s *Store) Add(ctx context.Context, kind Kind, data map[string]any) (*Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown collection %q", kind)
	}
	if data == nil {
		data = map[string]any{}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s record: %w", kind, err)
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Kind:      kind,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog_items (id, kind, data, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(kind), string(raw), rec.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting %s record: %w", kind, err)
	}
	return rec, nil
}

// Records returns the stored records of kind in insertion order.
func (s *Store) Records(ctx context.Context, kind Kind) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, data, created_at FROM catalog_items WHERE kind = ? ORDER BY seq`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r      Record
			k, raw string
			ts     string
		)
		if err := rows.Scan(&r.ID, &k, &raw, &ts); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		r.Kind = Kind(k)
		if err := json.Unmarshal([]byte(raw), &r.Data); err != nil {
			return nil, fmt.Errorf("decoding %s record %s: %w", kind, r.ID, err)
		}
		if t, perr := time.Parse(time.DateTime, ts); perr == nil {
			r.CreatedAt = t
		} else if t, perr := time.Parse(time.RFC3339, ts); perr == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// List returns the opaque data of every record of kind, as served by the API.
// The result is never nil.
func (s *Store) List(ctx context.Context, kind Kind) ([]map[string]any, error) {
	records, err := s.Records(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, r.Data)
	}
	return out, nil
}

// Count returns the number of records of kind.
func (s *Store) Count(ctx context.Context, kind Kind) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catalog_items WHERE kind = ?`, string(kind),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

// Clear deletes every record of kind and returns how many were removed.
func (s *Store) Clear(ctx context.Context, kind Kind) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE kind = ?`, string(kind))
	if err != nil {
		return 0, fmt.Errorf("clearing %s: %w", kind, err)
	}
	return res.RowsAffected()
}
