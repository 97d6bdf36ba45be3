// Package hostfuncs provides the host functions a guest uses to reach its
// preopened files. Guests address files only by synthetic filename; the host
// side resolves those against the grants made during argument mediation and
// enforces the granted access mode.
package hostfuncs

import (
	"os"
	"sync"
)

// Access mode values of the open host call, shared with guest-side SDKs.
const (
	OpenRead   = 0
	OpenWrite  = 1
	OpenAppend = 2
)

// MaxTransfer caps the bytes one read or write host call moves. The length
// argument is guest-controlled; without a cap a guest could demand a
// multi-gigabyte host allocation per call. Guests loop on short counts, as
// with any read/write interface.
const MaxTransfer = 1 << 20

// Status codes returned by the host calls. Non-negative values are file
// descriptors or byte counts.
const (
	StatusNotAvailable int32 = -1 // filename is not a preopen
	StatusDenied       int32 = -2 // preopen does not permit the requested access
	StatusInvalid      int32 = -3 // malformed call (bad fd, unreadable memory)
	StatusIOError      int32 = -4 // underlying I/O failed
)

// Opener resolves synthetic filenames to granted handles. Implemented by the
// pathbox facade; defined here to avoid an import cycle.
type Opener interface {
	Open(name string) (*os.File, error)
	Create(name string) (*os.File, error)
	Append(name string) (*os.File, error)
}

// FileTable tracks the descriptors a guest has opened. Descriptors index
// granted handles; closing a descriptor drops the table entry without
// closing the underlying handle, which stays owned by the grant set until
// the run tears down.
type FileTable struct {
	mu    sync.Mutex
	files map[int32]*os.File
	next  int32
}

// NewFileTable creates an empty table.
func NewFileTable() *FileTable {
	return &FileTable{files: make(map[int32]*os.File)}
}

// Put registers a file and returns its descriptor.
func (t *FileTable) Put(f *os.File) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	fd := t.next
	t.next++
	t.files[fd] = f
	return fd
}

// Get returns the file for a descriptor.
func (t *FileTable) Get(fd int32) (*os.File, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.files[fd]
	return f, ok
}

// Drop removes a descriptor. It reports whether the descriptor existed.
func (t *FileTable) Drop(fd int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.files[fd]
	delete(t.files, fd)
	return ok
}

// Len returns the number of open descriptors.
func (t *FileTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}
