package ports

import "go.trai.ch/flow/internal/core/domain"

// ResourceSource resolves resource identities to observable resources. The
// source decides the resource kind: external identities resolve to probed
// resources, paths to files or directories.
//
//go:generate go run go.uber.org/mock/mockgen -source=resource.go -destination=mocks/mock_resource.go -package=mocks
type ResourceSource interface {
	Resolve(id domain.ResourceID) domain.Resource
}

// ResourceCleaner deletes a created resource, used by the clean use case.
type ResourceCleaner interface {
	// Remove deletes the artifact behind the identity. Removing a missing
	// artifact is not an error.
	Remove(id domain.ResourceID) error
}

// ExternalProber reports the freshness of a non-filesystem resource. The
// returned token is opaque but must be monotonically increasing in bytewise
// order as the resource gets fresher.
type ExternalProber interface {
	// Probe returns the freshness token for the given key and whether the
	// resource exists at all.
	Probe(key string) (token string, exists bool, err error)
}

// ContentHasher computes a stable content state for a resource, used by the
// state store for change detection across runs.
type ContentHasher interface {
	// ResourceState returns the content state of the resource, or an error
	// when the resource cannot be read.
	ResourceState(res domain.Resource) (string, error)
}
