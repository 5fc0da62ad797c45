// Package cache persists resolution results keyed by the literal query text.
//
// The store is a single JSON object whose keys are raw queries and whose
// values hold the container number and the extracted result. It is read once
// when a resolution starts and rewritten in full after each new result.
// Entries are never revalidated against the carrier sites.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt is returned by Load when the cache file exists but is not valid JSON.
var ErrCorrupt = errors.New("cache: corrupt cache file")

// Entry is a stored resolution result.
type Entry struct {
	ContainerNumber string `json:"container_number"`
	Result          string `json:"result"`
}

// Store maps raw queries to their resolution results.
type Store struct {
	path    string
	entries map[string]Entry
	mu      sync.RWMutex
}

// New returns an empty store that saves to path.
func New(path string) *Store {
	return &Store{
		path:    path,
		entries: make(map[string]Entry),
	}
}

// Load reads the store at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("cache: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if s.entries == nil {
		// the file held a JSON null
		s.entries = make(map[string]Entry)
	}
	return s, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Get returns the entry stored for query.
func (s *Store) Get(query string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[query]
	return e, ok
}

// Put inserts or overwrites the entry for query in memory.
func (s *Store) Put(query string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[query] = e
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Save rewrites the whole file with 2-space indented JSON.
// The data goes to a temporary file first and is renamed into place.
// Concurrent processes saving the same file race; the last writer wins.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cache: create directory: %w", err)
		}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	// results are often raw page markup
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s.entries); err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("cache: write temp file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("cache: rename temp file: %w", err)
	}
	return nil
}
