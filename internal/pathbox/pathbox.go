// Package pathbox mediates between an external argument vector and a
// sandboxed guest: it infers which arguments denote paths, grants
// capability-scoped access to them, substitutes synthetic filenames, and
// retranslates guest output back to the original paths.
package pathbox

import (
	"fmt"
	"io"
	"os"

	"github.com/pathbox-dev/pathbox/internal/apperrors"
	"github.com/pathbox-dev/pathbox/internal/classify"
	"github.com/pathbox-dev/pathbox/internal/grant"
	"github.com/pathbox-dev/pathbox/internal/registry"
	"github.com/pathbox-dev/pathbox/internal/retranslate"
	"github.com/pathbox-dev/pathbox/internal/rewrite"
)

// Options configures a Pathbox.
type Options struct {
	// Level selects how much path inference the classifier performs.
	Level classify.Level

	// DefaultMode is the access granted to paths without an explicit
	// %read:/%write:/%append: directive when Level is LevelAuto.
	DefaultMode classify.Mode

	// Extensions overrides the built-in extension heuristic. Nil uses the
	// default rule.
	Extensions *classify.ExtensionSet
}

// Pathbox owns the per-invocation state: the identifier registry and the
// granted handles. It is constructed fresh at startup and torn down at
// process exit; mappings are never persisted or reused across runs.
//
// Argument processing is sequential and happens before the guest launches;
// afterwards the registry is frozen and only read.
type Pathbox struct {
	classifier *classify.Classifier
	rewriter   *rewrite.Rewriter
	registry   *registry.Registry
	handles    *grant.Set
}

// New creates an empty Pathbox.
func New(opts Options) *Pathbox {
	p := &Pathbox{
		classifier: classify.New(opts.Level, opts.DefaultMode, opts.Extensions),
		registry:   registry.New(),
		handles:    grant.NewSet(),
	}
	p.rewriter = rewrite.New(p.classifier, p.mint)
	return p
}

// mint opens path with the resolved mode and records the mapping. An entry
// exists only for a successfully opened resource. The entry records the
// access the grant actually carries, which may be narrower than requested.
func (p *Pathbox) mint(path string, mode classify.Mode) (string, error) {
	handle, err := grant.Open(path, mode)
	if err != nil {
		return "", err
	}
	entry := p.registry.Register(path, handle.Mode())
	p.handles.Add(entry.ID.String(), handle)
	return entry.SyntheticName, nil
}

// ProcessArgs translates the external argument vector into the internal one,
// granting access to every classified path along the way. On failure all
// handles granted for earlier arguments are released before the error
// propagates; there is no silent fallback to verbatim.
func (p *Pathbox) ProcessArgs(args []string) ([]string, error) {
	rewritten, err := p.rewriter.Args(args)
	if err != nil {
		_ = p.handles.ReleaseAll()
		return nil, err
	}
	return rewritten, nil
}

// ProcessVars translates the values of "KEY=VALUE" environment entries the
// same way arguments are translated.
func (p *Pathbox) ProcessVars(vars []string) ([]string, error) {
	rewritten, err := p.rewriter.Vars(vars)
	if err != nil {
		_ = p.handles.ReleaseAll()
		return nil, err
	}
	return rewritten, nil
}

// Registry exposes the identifier registry for read-only consumers.
func (p *Pathbox) Registry() *registry.Registry {
	return p.registry
}

// HandleCount returns the number of granted handles.
func (p *Pathbox) HandleCount() int {
	return p.handles.Len()
}

// Release closes every granted handle. Safe to call on every exit path,
// including after a processing failure that already released them.
func (p *Pathbox) Release() error {
	return p.handles.ReleaseAll()
}

// Open resolves a synthetic filename to its granted handle for reading.
// The file position is rewound so the guest reads from the start.
func (p *Pathbox) Open(name string) (*os.File, error) {
	handle, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	if !handle.CanRead() {
		return nil, apperrors.NewAccessError(name, "read", handle.Mode().String())
	}
	if _, err := handle.File().Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return handle.File(), nil
}

// Create resolves a synthetic filename to its granted handle for writing,
// with create/truncate semantics.
func (p *Pathbox) Create(name string) (*os.File, error) {
	handle, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	if !handle.CanWrite() {
		return nil, apperrors.NewAccessError(name, "write", handle.Mode().String())
	}
	if err := handle.File().Truncate(0); err != nil {
		return nil, err
	}
	if _, err := handle.File().Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return handle.File(), nil
}

// Append resolves a synthetic filename to its granted handle for appending.
func (p *Pathbox) Append(name string) (*os.File, error) {
	handle, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	if !handle.CanAppend() {
		return nil, apperrors.NewAccessError(name, "append", handle.Mode().String())
	}
	if _, err := handle.File().Seek(0, io.SeekEnd); err != nil {
		return nil, err
	}
	return handle.File(), nil
}

func (p *Pathbox) resolve(name string) (*grant.Handle, error) {
	entry, ok := p.registry.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, apperrors.ErrNotPreopened)
	}
	handle, ok := p.handles.Get(entry.ID.String())
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, apperrors.ErrNotPreopened)
	}
	return handle, nil
}

// OutputWriter wraps an output stream in a retranslating filter. Each stream
// gets its own independent filter; they share only read access to the frozen
// registry.
func (p *Pathbox) OutputWriter(inner io.Writer) *retranslate.Writer {
	return retranslate.NewWriter(inner, p.registry)
}
