// Package fs provides filesystem-backed resource implementations and the
// content hasher.
package fs

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source implements ports.ResourceSource rooted at a directory. Identities
// with the external scheme resolve to probed resources; all other identities
// resolve to files or, when a directory exists at the path, directories.
type Source struct {
	root   string
	prober ports.ExternalProber
}

// NewSource creates a Source. prober may be nil when no external resources
// are declared; probing then reports every external resource as missing.
func NewSource(root string, prober ports.ExternalProber) *Source {
	return &Source{root: root, prober: prober}
}

// Resolve maps an identity to a concrete resource. Resolution itself does
// the minimal observation needed to pick the kind; freshness is read lazily.
func (s *Source) Resolve(id domain.ResourceID) domain.Resource {
	if domain.IsExternal(id) {
		return &External{id: id, key: domain.ExternalKey(id), prober: s.prober}
	}

	path := s.Path(id)
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return &Dir{id: id, path: path}
	}
	return &File{id: id, path: path}
}

// Path returns the filesystem path a non-external identity resolves to.
// Absolute identities name their path directly; relative ones are resolved
// against the source's root.
func (s *Source) Path(id domain.ResourceID) string {
	if filepath.IsAbs(id.String()) {
		return id.String()
	}
	return filepath.Join(s.root, id.String())
}

// Remove deletes the artifact behind a filesystem identity. External
// resources cannot be removed here.
func (s *Source) Remove(id domain.ResourceID) error {
	if domain.IsExternal(id) {
		return zerr.With(zerr.New("cannot remove external resource"), "resource", id.String())
	}
	return os.RemoveAll(s.Path(id))
}

// File is a resource backed by a regular file; its fingerprint is the file's
// modification time.
type File struct {
	id   domain.ResourceID
	path string
}

func (f *File) ID() domain.ResourceID { return f.id }

func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *File) Fingerprint() domain.Fingerprint {
	fi, err := os.Stat(f.path)
	if err != nil {
		return domain.UnknownFingerprint()
	}
	return domain.TimeFingerprint(fi.ModTime())
}

// Dir is a resource backed by a directory; its fingerprint is the newest
// modification time beneath it, so touching any contained file makes the
// directory fresh.
type Dir struct {
	id   domain.ResourceID
	path string
}

func (d *Dir) ID() domain.ResourceID { return d.id }

func (d *Dir) Exists() bool {
	fi, err := os.Stat(d.path)
	return err == nil && fi.IsDir()
}

func (d *Dir) Fingerprint() domain.Fingerprint {
	var newest time.Time
	err := filepath.WalkDir(d.path, func(_ string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return domain.UnknownFingerprint()
	}
	return domain.TimeFingerprint(newest)
}

// External is a resource checked through an injected prober, e.g. a database
// table. Its fingerprint is the prober's opaque token.
type External struct {
	id     domain.ResourceID
	key    string
	prober ports.ExternalProber
}

func (e *External) ID() domain.ResourceID { return e.id }

func (e *External) Exists() bool {
	if e.prober == nil {
		return false
	}
	_, exists, err := e.prober.Probe(e.key)
	return err == nil && exists
}

func (e *External) Fingerprint() domain.Fingerprint {
	if e.prober == nil {
		return domain.UnknownFingerprint()
	}
	token, exists, err := e.prober.Probe(e.key)
	if err != nil || !exists || token == "" {
		return domain.UnknownFingerprint()
	}
	return domain.TokenFingerprint(token)
}
