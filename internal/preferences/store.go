package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// ErrCorrupt is returned by Load when the preferences file is not valid JSON.
var ErrCorrupt = errors.New("preferences file is corrupted")

// Store loads and saves the preferences document at a fixed path, keeping a
// single in-memory copy for the lifetime of the Store. The file itself is
// not locked; concurrent processes may lose each other's updates.
type Store struct {
	path string
	warn func(msg string)

	mu     sync.Mutex
	cached Document
}

// Option configures a Store.
type Option func(*Store)

// WithWarnings routes user-visible warnings (schema violations, write
// failures) to fn.
func WithWarnings(fn func(msg string)) Option {
	return func(s *Store) {
		s.warn = fn
	}
}

// NewStore returns a Store for the document at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		warn: func(string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the preferences file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the preferences document. A missing file yields an empty
// document. A file that is not valid JSON yields an error wrapping
// ErrCorrupt. A document that fails schema validation is returned as parsed
// after a warning.
func (s *Store) Load() (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

func (s *Store) loadLocked() (Document, error) {
	if s.cached != nil {
		return s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s may have syntax errors, fix or delete it and re-run (%v)", ErrCorrupt, s.path, err)
	}
	if doc == nil {
		// A literal "null" document.
		doc = Document{}
	}

	issues, err := validateJSON(data)
	if err != nil {
		s.warn(fmt.Sprintf("could not validate %s: %v", s.path, err))
	} else if len(issues) > 0 {
		s.warn(fmt.Sprintf("%s may be outdated (%s). Please delete it and re-run in manual mode.", s.path, joinIssues(issues)))
	}

	s.cached = doc
	return doc, nil
}

// Save merges partial over a copy of the current document, drops every key
// that is not part of Defaults or holds null, replaces the in-memory copy, and writes the
// result. A write failure is reported as a warning and returned; the
// in-memory copy keeps the update.
func (s *Store) Save(partial Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return err
	}

	next := current.Clone()
	for k, v := range partial {
		next[k] = deepCopy(v)
	}
	for k, v := range next {
		if v == nil || !IsKnownKey(k) {
			delete(next, k)
		}
	}
	s.cached = next

	if err := s.write(next); err != nil {
		s.warn(fmt.Sprintf("Error saving preferences: make sure you have write access to %s. (%v)", s.path, err))
		return err
	}
	return nil
}

// Unset removes keys from the document and saves it.
func (s *Store) Unset(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return err
	}
	next := current.Clone()
	for _, k := range keys {
		delete(next, k)
	}
	s.cached = next

	if err := s.write(next); err != nil {
		s.warn(fmt.Sprintf("Error saving preferences: make sure you have write access to %s. (%v)", s.path, err))
		return err
	}
	return nil
}

// SavePreset stores preset under name in the presets mapping and saves.
func (s *Store) SavePreset(name string, preset map[string]any) error {
	current, err := s.Load()
	if err != nil {
		return err
	}
	presets, _ := current[KeyPresets].(map[string]any)
	if presets == nil {
		presets = map[string]any{}
	}
	presets[name] = preset
	return s.Save(Document{KeyPresets: presets})
}

func (s *Store) write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
