// Package grant opens real filesystem resources with exactly the access a
// classified argument was resolved to, and manages the resulting handle
// lifecycle.
package grant

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pathbox-dev/pathbox/internal/apperrors"
	"github.com/pathbox-dev/pathbox/internal/classify"
)

// Handle is an opened resource bound to one mapping entry. The file
// descriptor carries exactly the granted access; the OS enforces it even if a
// consumer bypasses the mode accessors.
type Handle struct {
	file *os.File
	path string
	mode classify.Mode
}

// Open opens path with exactly the access mode requires. ModeAuto opens for
// reading and writing when the resource exists and creates it otherwise; when
// the resource exists but the user may only read it, the grant narrows to
// read-only instead of failing, so read-only inputs still serve reads. The
// handle's Mode reports the access actually granted.
// Failures are surfaced as *apperrors.OpenError; no entry should be recorded
// for a failed open.
func Open(path string, mode classify.Mode) (*Handle, error) {
	file, granted, err := openFile(path, mode)
	if err != nil {
		return nil, apperrors.NewOpenError(path, mode.String(), err)
	}

	// Preopens are regular files only; granting a directory or device here
	// would hand the guest more than one resource.
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, apperrors.NewOpenError(path, mode.String(), err)
	}
	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, apperrors.NewOpenError(path, mode.String(),
			fmt.Errorf("not a regular file"))
	}

	return &Handle{file: file, path: path, mode: granted}, nil
}

// openFile maps the mode to open flags and returns the access the descriptor
// actually carries.
func openFile(path string, mode classify.Mode) (*os.File, classify.Mode, error) {
	switch mode {
	case classify.ModeRead:
		file, err := os.OpenFile(path, os.O_RDONLY, 0)
		return file, mode, err
	case classify.ModeWrite:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		return file, mode, err
	case classify.ModeAppend:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		return file, mode, err
	case classify.ModeAuto:
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil && errors.Is(err, fs.ErrPermission) {
			// The resource exists but is not writable by us; a
			// read-only input is still a usable grant.
			if file, rerr := os.OpenFile(path, os.O_RDONLY, 0); rerr == nil {
				return file, classify.ModeRead, nil
			}
		}
		return file, mode, err
	default:
		return nil, mode, fmt.Errorf("unsupported mode")
	}
}

// File returns the underlying open file.
func (h *Handle) File() *os.File {
	return h.file
}

// Path returns the original external path the handle was opened from.
func (h *Handle) Path() string {
	return h.path
}

// Mode returns the access the handle was granted.
func (h *Handle) Mode() classify.Mode {
	return h.mode
}

// CanRead reports whether the handle may serve reads.
func (h *Handle) CanRead() bool {
	return h.mode == classify.ModeRead || h.mode == classify.ModeAuto
}

// CanWrite reports whether the handle may serve writes.
func (h *Handle) CanWrite() bool {
	return h.mode == classify.ModeWrite || h.mode == classify.ModeAuto
}

// CanAppend reports whether the handle may serve appends.
func (h *Handle) CanAppend() bool {
	return h.mode == classify.ModeAppend || h.mode == classify.ModeAuto
}

// Close releases the underlying file.
func (h *Handle) Close() error {
	return h.file.Close()
}

// Set owns a group of handles granted within one invocation, so that every
// exit path, including a failure partway through argument processing, can
// release all of them.
type Set struct {
	byID  map[string]*Handle
	order []string
}

// NewSet creates an empty handle set.
func NewSet() *Set {
	return &Set{byID: make(map[string]*Handle)}
}

// Add records a handle under its synthetic identifier.
func (s *Set) Add(id string, h *Handle) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	}
	s.byID[id] = h
}

// Get returns the handle for a synthetic identifier.
func (s *Set) Get(id string) (*Handle, bool) {
	h, ok := s.byID[id]
	return h, ok
}

// Len returns the number of handles held.
func (s *Set) Len() int {
	return len(s.byID)
}

// ReleaseAll closes every handle in grant order, keeping the first error.
// It is safe to call more than once.
func (s *Set) ReleaseAll() error {
	var first error
	for _, id := range s.order {
		if h, ok := s.byID[id]; ok {
			if err := h.Close(); err != nil && first == nil {
				first = err
			}
			delete(s.byID, id)
		}
	}
	s.order = s.order[:0]
	return first
}
