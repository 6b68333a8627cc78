// Package domain contains the core domain model for the task dependency graph.
package domain

import (
	"time"
	"unique"
)

// ResourceID identifies a resource: a normalized path for files and
// directories, or an external-resource key such as "external:warehouse.events".
// IDs are interned because the same identity appears in every index, edge and
// status map of a run.
type ResourceID struct {
	h unique.Handle[string]
}

// NewResourceID creates a ResourceID from its string identity.
func NewResourceID(s string) ResourceID {
	return ResourceID{h: unique.Make(s)}
}

// String returns the underlying identity.
func (id ResourceID) String() string {
	var zero unique.Handle[string]
	if id.h == zero {
		return ""
	}
	return id.h.Value()
}

// MarshalText implements encoding.TextMarshaler.
func (id ResourceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ResourceID) UnmarshalText(text []byte) error {
	id.h = unique.Make(string(text))
	return nil
}

// Resource is an observable artifact: something whose existence and freshness
// can be checked. Implementations are purely observational and must not
// modify the artifact they describe.
type Resource interface {
	// ID returns the resource identity.
	ID() ResourceID
	// Exists reports whether the artifact currently exists.
	Exists() bool
	// Fingerprint returns the current freshness value. Implementations
	// return the unknown fingerprint when no comparable value is available.
	Fingerprint() Fingerprint
}

type fingerprintKind uint8

const (
	fingerprintUnknown fingerprintKind = iota
	fingerprintTime
	fingerprintToken
)

// Fingerprint is a comparable freshness value for a resource.
//
// The comparison contract per resource kind: files and directories carry a
// modification instant; external resources carry an opaque token whose
// bytewise order must be monotonic in freshness. Fingerprints of different
// kinds, and the unknown fingerprint, are not comparable and always count as
// stale on either side of a comparison.
type Fingerprint struct {
	kind  fingerprintKind
	when  time.Time
	token string
}

// UnknownFingerprint returns the always-stale sentinel.
func UnknownFingerprint() Fingerprint {
	return Fingerprint{}
}

// TimeFingerprint returns a fingerprint backed by a modification instant.
func TimeFingerprint(t time.Time) Fingerprint {
	return Fingerprint{kind: fingerprintTime, when: t}
}

// TokenFingerprint returns a fingerprint backed by an opaque monotonically
// increasing token.
func TokenFingerprint(token string) Fingerprint {
	return Fingerprint{kind: fingerprintToken, token: token}
}

// Known reports whether the fingerprint carries a comparable value.
func (f Fingerprint) Known() bool {
	return f.kind != fingerprintUnknown
}

// OlderThan reports whether f is out of date relative to other. The
// comparison is conservative: if either side is unknown, or the two sides are
// of different kinds, the answer is true so that the resource is rebuilt
// rather than silently trusted.
func (f Fingerprint) OlderThan(other Fingerprint) bool {
	if f.kind != other.kind || f.kind == fingerprintUnknown {
		return true
	}
	switch f.kind {
	case fingerprintTime:
		return f.when.Before(other.when)
	case fingerprintToken:
		return f.token < other.token
	default:
		return true
	}
}

// Time returns the modification instant of a time-backed fingerprint and the
// zero time otherwise.
func (f Fingerprint) Time() time.Time {
	return f.when
}

// Token returns the token of a token-backed fingerprint and the empty string
// otherwise.
func (f Fingerprint) Token() string {
	return f.token
}
