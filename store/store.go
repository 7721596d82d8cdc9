// Package store persists results as flat JSON files with an index.json
// catalog. There is no transactionality beyond whole-file writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gxquant/screener/pkg/id"
)

// Entry is one catalog row in index.json.
type Entry struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Key     string    `json:"key"`
	File    string    `json:"file"`
	Created time.Time `json:"created_at"`
}

// Store writes JSON documents under a directory and tracks them in
// index.json.
type Store struct {
	dir       string
	indexPath string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	s := &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, "index.json"),
	}
	if _, err := os.Stat(s.indexPath); os.IsNotExist(err) {
		if err := s.writeIndex([]Entry{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save writes v as a JSON document and records it in the index.
// kind groups documents ("prediction", "screen"); key identifies the
// subject (usually a symbol).
func (s *Store) Save(kind, key string, v any) (Entry, error) {
	entry := Entry{
		ID:      id.New(),
		Kind:    kind,
		Key:     key,
		Created: time.Now(),
	}
	entry.File = fmt.Sprintf("%s_%s_%s.json", kind, key, entry.ID)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("store save: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, entry.File), data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("store save: %w", err)
	}

	index, err := s.readIndex()
	if err != nil {
		return Entry{}, err
	}
	index = append(index, entry)
	if err := s.writeIndex(index); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Load unmarshals a stored document into v.
func (s *Store) Load(entry Entry, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, entry.File))
	if err != nil {
		return fmt.Errorf("store load: %w", err)
	}
	return json.Unmarshal(data, v)
}

// List returns index entries filtered by kind and key; empty strings
// match everything. Results are sorted oldest first.
func (s *Store) List(kind, key string) ([]Entry, error) {
	index, err := s.readIndex()
	if err != nil {
		return nil, err
	}

	out := []Entry{}
	for _, e := range index {
		if kind != "" && e.Kind != kind {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (s *Store) readIndex() ([]Entry, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		return nil, fmt.Errorf("store index: %w", err)
	}
	var index []Entry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("store index: %w", err)
	}
	return index, nil
}

func (s *Store) writeIndex(index []Entry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("store index: %w", err)
	}
	return os.WriteFile(s.indexPath, data, 0o644)
}
