// Package reminder persists scheduled reminders and fires them on time.
// The store is a whole-file JSON array rewritten on every mutation; a mutex
// serializes mutations so a firing reminder cannot lose a concurrent
// schedule, and writes go through a temp-file rename so a crash never leaves
// a half-written list.
package reminder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Reminder is one pending entry. Identity is the (When, Message) pair; there
// is no separate identifier, so equal duplicates collapse on removal.
type Reminder struct {
	When    time.Time
	Message string
}

type record struct {
	When    string `json:"when"`
	Message string `json:"message"`
}

// Store is the durable reminder list. All access is a full read or a full
// rewrite under the mutex.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens the store at path. The file is created on first mutation.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// List returns the persisted reminders. Records that fail to parse or carry
// an empty message are skipped, not errors.
func (s *Store) List() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Add appends one reminder to the persisted list.
func (s *Store) Add(r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(rs, r))
}

// Remove deletes every entry equal to r. Two reminders with an identical
// (when, message) pair are both removed by the one firing event.
func (s *Store) Remove(r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := s.read()
	if err != nil {
		return err
	}
	kept := rs[:0]
	for _, x := range rs {
		if !x.When.Equal(r.When) || x.Message != r.Message {
			kept = append(kept, x)
		}
	}
	return s.write(kept)
}

// Replace overwrites the whole list. Used by startup restore, which must end
// up with exactly the surviving future entries.
func (s *Store) Replace(rs []Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(rs)
}

// Clear empties the store (clean slate protocol).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(nil)
}

func (s *Store) read() ([]Reminder, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse reminders: %w", err)
	}
	var rs []Reminder
	for _, rec := range recs {
		when, err := time.Parse(time.RFC3339, rec.When)
		if err != nil {
			continue
		}
		msg := strings.TrimSpace(rec.Message)
		if msg == "" {
			continue
		}
		rs = append(rs, Reminder{When: when, Message: msg})
	}
	return rs, nil
}

func (s *Store) write(rs []Reminder) error {
	recs := make([]record, 0, len(rs))
	for _, r := range rs {
		// RFC3339Nano keeps sub-second precision, so an in-memory When from
		// time.Now() still compares Equal after a round trip through the file.
		recs = append(recs, record{When: r.When.Format(time.RFC3339Nano), Message: r.Message})
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create reminder dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write reminders: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace reminders: %w", err)
	}
	return nil
}
