// Package state implements the on-disk run state: resource content states
// and task durations persisted between invocations.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

// DefaultPath is the state file location relative to the workflow root.
const DefaultPath = ".flow/state.json"

type fileState struct {
	Resources map[string]string  `json:"resources,omitempty"`
	Durations map[string]float64 `json:"durations,omitempty"` // seconds
}

// Store implements ports.StateStore using a flat JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
	data fileState
}

// NewStore creates a Store backed by the file at the given path. A missing
// file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path: filepath.Clean(path),
		data: fileState{
			Resources: make(map[string]string),
			Durations: make(map[string]float64),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read state file")
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return zerr.Wrap(err, "failed to unmarshal state file")
	}
	if s.data.Resources == nil {
		s.data.Resources = make(map[string]string)
	}
	if s.data.Durations == nil {
		s.data.Durations = make(map[string]float64)
	}
	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal state")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	// Write-then-rename so an interrupted save leaves the previous state
	// file intact.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary state file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write state file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to set state file permissions")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close temporary state file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace state file")
	}
	return nil
}

// ResourceState returns the stored content state for a resource.
func (s *Store) ResourceState(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data.Resources[id]
	return state, ok
}

// PutResourceState records the content state for a resource and persists the
// store. An empty state clears the record.
func (s *Store) PutResourceState(id, state string) error {
	s.mu.Lock()
	if state == "" {
		delete(s.data.Resources, id)
	} else {
		s.data.Resources[id] = state
	}
	s.mu.Unlock()
	return s.save()
}

// TaskDuration returns the last recorded duration of a task.
func (s *Store) TaskDuration(name string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.data.Durations[name]
	if !ok {
		return 0, false
	}
	return time.Duration(sec * float64(time.Second)), true
}

// PutTaskDuration records the duration of a task and persists the store.
func (s *Store) PutTaskDuration(name string, d time.Duration) error {
	s.mu.Lock()
	s.data.Durations[name] = d.Seconds()
	s.mu.Unlock()
	return s.save()
}

// Clear drops all recorded state and removes the state file.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.data.Resources = make(map[string]string)
	s.data.Durations = make(map[string]float64)
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove state file")
	}
	return nil
}
