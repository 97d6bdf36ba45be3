package hostfuncs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero/api"

	"github.com/pathbox-dev/pathbox/internal/apperrors"
)

// FSHost services the file host calls for one guest instance.
type FSHost struct {
	opener Opener
	table  *FileTable
}

// NewFSHost creates the host-side state for one guest.
func NewFSHost(opener Opener) *FSHost {
	return &FSHost{opener: opener, table: NewFileTable()}
}

// Table exposes the descriptor table, mainly for tests and teardown checks.
func (h *FSHost) Table() *FileTable {
	return h.table
}

// Open implements the open host call. The guest passes a synthetic filename
// and an access mode; on success it receives a descriptor scoped to this run.
func (h *FSHost) Open(_ context.Context, mod api.Module, stack []uint64) {
	namePtr := api.DecodeU32(stack[0])
	nameLen := api.DecodeU32(stack[1])
	mode := api.DecodeI32(stack[2])

	nameBytes, ok := mod.Memory().Read(namePtr, nameLen)
	if !ok {
		stack[0] = api.EncodeI32(StatusInvalid)
		return
	}
	name := string(nameBytes)

	file, err := h.openWithMode(name, mode)
	if err != nil {
		stack[0] = api.EncodeI32(openStatus(err))
		slog.Debug("guest open denied", "name", name, "mode", mode, "error", err)
		return
	}
	stack[0] = api.EncodeI32(h.table.Put(file))
}

func (h *FSHost) openWithMode(name string, mode int32) (*os.File, error) {
	switch mode {
	case OpenRead:
		return h.opener.Open(name)
	case OpenWrite:
		return h.opener.Create(name)
	case OpenAppend:
		return h.opener.Append(name)
	default:
		return nil, errors.New("unknown open mode")
	}
}

// Read implements the read host call: fills the guest buffer from the
// descriptor and returns the byte count, 0 at end of file.
func (h *FSHost) Read(_ context.Context, mod api.Module, stack []uint64) {
	fd := api.DecodeI32(stack[0])
	bufPtr := api.DecodeU32(stack[1])
	bufLen := clampTransfer(api.DecodeU32(stack[2]))

	file, ok := h.table.Get(fd)
	if !ok {
		stack[0] = api.EncodeI32(StatusInvalid)
		return
	}

	buf := make([]byte, bufLen)
	n, err := file.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		stack[0] = api.EncodeI32(StatusIOError)
		return
	}
	if n > 0 {
		if !mod.Memory().Write(bufPtr, buf[:n]) {
			stack[0] = api.EncodeI32(StatusInvalid)
			return
		}
	}
	stack[0] = api.EncodeI32(int32(n))
}

// Write implements the write host call: writes the guest buffer to the
// descriptor and returns the byte count.
func (h *FSHost) Write(_ context.Context, mod api.Module, stack []uint64) {
	fd := api.DecodeI32(stack[0])
	bufPtr := api.DecodeU32(stack[1])
	bufLen := clampTransfer(api.DecodeU32(stack[2]))

	file, ok := h.table.Get(fd)
	if !ok {
		stack[0] = api.EncodeI32(StatusInvalid)
		return
	}

	buf, ok := mod.Memory().Read(bufPtr, bufLen)
	if !ok {
		stack[0] = api.EncodeI32(StatusInvalid)
		return
	}
	n, err := file.Write(buf)
	if err != nil {
		stack[0] = api.EncodeI32(StatusIOError)
		return
	}
	stack[0] = api.EncodeI32(int32(n))
}

// Close implements the close host call. It releases the descriptor only; the
// underlying handle stays with the grant set.
func (h *FSHost) Close(_ context.Context, _ api.Module, stack []uint64) {
	fd := api.DecodeI32(stack[0])
	if !h.table.Drop(fd) {
		stack[0] = api.EncodeI32(StatusInvalid)
		return
	}
	stack[0] = api.EncodeI32(0)
}

// clampTransfer bounds a guest-supplied length to MaxTransfer. The cap also
// keeps byte counts well inside the i32 status range.
func clampTransfer(n uint32) uint32 {
	if n > MaxTransfer {
		return MaxTransfer
	}
	return n
}

// openStatus maps a resolution failure to a host-call status.
func openStatus(err error) int32 {
	var accessErr *apperrors.AccessError
	switch {
	case errors.Is(err, apperrors.ErrNotPreopened):
		return StatusNotAvailable
	case errors.As(err, &accessErr):
		return StatusDenied
	default:
		return StatusIOError
	}
}
