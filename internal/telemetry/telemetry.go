// Package telemetry records what a debugging session did so it can be
// exported and attached to a bug report.
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ligun0805/accesslist-debug/internal/debugcore"
)

// Item is one recorded action: connect, switch, probe, snapshot or transfer outcome.
type Item struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Action  string `json:"action"`
	ChainID uint64 `json:"chainId,omitempty"`
	Account string `json:"account,omitempty"`
	Hash    string `json:"hash,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

// Store is an in-memory, append-only list of items. It is never persisted
// unless exported.
type Store struct {
	mu    sync.Mutex
	items []Item
	now   func() time.Time
}

func NewStore() *Store { return &Store{now: time.Now} }

// Add appends it, filling ID and Time when empty.
func (s *Store) Add(it Item) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Time == "" {
		it.Time = s.now().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()
}

// Snapshot returns a copy of all items.
func (s *Store) Snapshot() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// RecordOutcome keeps a transfer outcome under its own id so exports can be
// matched with the log. It fits OutcomeStore.Subscribe.
func (s *Store) RecordOutcome(o debugcore.Outcome) {
	it := Item{
		ID:      o.ID,
		Time:    o.Timestamp.UTC().Format(time.RFC3339),
		Action:  "transfer",
		ChainID: o.ChainID,
		OK:      !o.IsError(),
		Error:   o.Error,
	}
	if o.HasHash() {
		it.Hash = o.Hash.Hex()
	}
	s.Add(it)
}

// WriteJSON writes all items to dir/<timestamp>.json and returns the path.
func (s *Store) WriteJSON(dir string) (string, error) {
	now := s.now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, now.Format("20060102_150405")+".json")
	out := map[string]any{
		"generatedAt": now.UTC().Format(time.RFC3339),
		"telemetry":   s.Snapshot(),
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// ErrString is "" for nil so failed and successful actions share one shape.
func ErrString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
