// Package registry allocates synthetic identifiers for granted paths and
// holds the bidirectional mapping for the lifetime of one invocation.
//
// The registry is populated sequentially before the guest launches and is
// read-only afterwards, so concurrent readers (one retranslation filter per
// output stream) need no locking.
package registry

import (
	"github.com/google/uuid"

	"github.com/pathbox-dev/pathbox/internal/classify"
)

// Entry records one path replacement. Entries are write-once: created during
// registration and never mutated.
type Entry struct {
	// ID is the fresh random identifier minted for this path. A new one is
	// minted every run, even for a path seen in an earlier run.
	ID uuid.UUID

	// SyntheticName is what the guest sees: the identifier's textual form,
	// with the original path's extension appended when it has one.
	SyntheticName string

	// OriginalPath is the external path the argument named.
	OriginalPath string

	// Mode is the access the path was granted.
	Mode classify.Mode

	// Extension is the original path's final dot-suffix, without the dot,
	// or "" when it has none. Case is preserved.
	Extension string
}

// Registry maps synthetic identifiers to original paths and back.
type Registry struct {
	byID   map[string]*Entry // keyed by canonical UUID text
	byName map[string]*Entry // keyed by synthetic filename
	order  []*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[string]*Entry),
		byName: make(map[string]*Entry),
	}
}

// Register mints a fresh identifier for path and records the mapping.
// Call only after the path has been opened successfully; a failed open must
// leave no entry behind.
func (r *Registry) Register(path string, mode classify.Mode) *Entry {
	id := uuid.New()
	ext := classify.SplitExtension(path)

	name := id.String()
	if ext != "" {
		name += "." + ext
	}

	entry := &Entry{
		ID:            id,
		SyntheticName: name,
		OriginalPath:  path,
		Mode:          mode,
		Extension:     ext,
	}
	r.byID[id.String()] = entry
	r.byName[name] = entry
	r.order = append(r.order, entry)
	return entry
}

// LookupID returns the entry whose identifier has the given canonical textual
// form. UUID-shaped text this registry never issued is simply not found;
// callers pass such text through untouched.
func (r *Registry) LookupID(id string) (*Entry, bool) {
	entry, ok := r.byID[id]
	return entry, ok
}

// LookupName returns the entry for a synthetic filename.
func (r *Registry) LookupName(name string) (*Entry, bool) {
	entry, ok := r.byName[name]
	return entry, ok
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []*Entry {
	return r.order
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}
