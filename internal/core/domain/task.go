package domain

import "strings"

// externalScheme prefixes resource identities that are probed externally
// (database tables, service endpoints) rather than checked on the filesystem.
const externalScheme = "external:"

// Task is an immutable unit of work: it produces exactly one resource from
// zero or more input resources by running a sequence of shell commands.
// A task with no commands is a pseudotask, used purely to group dependencies
// under one name.
//
// Tasks are built once from already-rendered configuration records and are
// never mutated afterwards; the graph that holds them owns them exclusively.
type Task struct {
	// Creates is the resource this task produces. It is the unique key of
	// the task within a graph.
	Creates ResourceID
	// Depends lists the input resources in declaration order. Duplicates
	// are permitted here and collapsed when graph edges are derived.
	Depends []ResourceID
	// Commands holds the rendered shell command strings, executed in order.
	Commands []string
}

// IsPseudo reports whether the task has no commands to run.
func (t Task) IsPseudo() bool {
	return len(t.Commands) == 0
}

// IsExternal reports whether the resource identity refers to an externally
// probed resource.
func IsExternal(id ResourceID) bool {
	return strings.HasPrefix(id.String(), externalScheme)
}

// ExternalKey strips the external scheme from an identity, returning the key
// handed to the prober.
func ExternalKey(id ResourceID) string {
	return strings.TrimPrefix(id.String(), externalScheme)
}
