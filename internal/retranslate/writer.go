// Package retranslate reverses synthetic-identifier substitution in guest
// output so the terminal shows the paths the user typed.
package retranslate

import (
	"io"
	"strings"
	"sync"

	"github.com/pathbox-dev/pathbox/internal/registry"
)

// uuidTextLen is the length of the canonical UUID textual form
// (8-4-4-4-12 hex digits separated by dashes).
const uuidTextLen = 36

// Writer is a streaming filter over one output stream. Occurrences of
// registered identifiers are replaced by their original paths; when the
// identifier is followed by its synthetic extension suffix, the suffix is
// consumed too, so a guest printing a full synthetic filename produces the
// full original path. All other bytes pass through unchanged, including
// UUID-shaped text this run never issued.
//
// A token split across two writes is handled by holding back a bounded tail
// that could still grow into a token; Flush drains it when the stream ends.
// Each stream gets its own Writer; they share only read access to the frozen
// registry. The Writer never creates, removes, or mutates entries.
type Writer struct {
	inner    io.Writer
	registry *registry.Registry

	mu  sync.Mutex
	buf []byte
}

// NewWriter creates a retranslating writer over inner.
func NewWriter(inner io.Writer, reg *registry.Registry) *Writer {
	return &Writer{inner: inner, registry: reg}
}

// Write implements io.Writer. The returned count is len(p) on success, even
// though the translated byte count may differ.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	out := w.translate(false)

	if len(out) > 0 {
		if _, err := w.inner.Write(out); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes any held-back tail through, translating what completed and
// passing the rest verbatim. Call when the stream ends; a partial token at
// end of stream can no longer complete.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.translate(true)
	if len(out) == 0 {
		return nil
	}
	_, err := w.inner.Write(out)
	return err
}

// translate consumes w.buf, returning the translated bytes ready for the
// inner writer. Unless final is set, bytes that could still complete into a
// registered token on a later write stay in w.buf.
func (w *Writer) translate(final bool) []byte {
	out := make([]byte, 0, len(w.buf))
	i := 0
	for i < len(w.buf) {
		rest := w.buf[i:]

		if len(rest) < uuidTextLen {
			if !final && isUUIDPrefix(rest) {
				break
			}
			out = append(out, rest[0])
			i++
			continue
		}

		if !isUUIDText(rest[:uuidTextLen]) {
			out = append(out, rest[0])
			i++
			continue
		}

		entry, ok := w.registry.LookupID(string(rest[:uuidTextLen]))
		if !ok {
			// UUID-shaped but not issued by this run; not ours to
			// translate.
			out = append(out, rest[0])
			i++
			continue
		}

		consumed := uuidTextLen
		hold := false
		if entry.Extension != "" {
			suffix := "." + entry.Extension
			after := rest[uuidTextLen:]
			switch {
			case len(after) >= len(suffix):
				if string(after[:len(suffix)]) == suffix {
					consumed += len(suffix)
				}
			case strings.HasPrefix(suffix, string(after)):
				// Cannot yet tell whether the synthetic
				// extension follows; wait for more bytes.
				hold = !final
			}
		}
		if hold {
			break
		}
		out = append(out, entry.OriginalPath...)
		i += consumed
	}
	w.buf = append(w.buf[:0], w.buf[i:]...)
	return out
}

// isUUIDText reports whether b is exactly the canonical textual form of a
// UUID: lowercase hex with dashes at positions 8, 13, 18 and 23.
func isUUIDText(b []byte) bool {
	return len(b) == uuidTextLen && isUUIDPrefix(b)
}

// isUUIDPrefix reports whether b is a prefix of some canonical UUID text.
func isUUIDPrefix(b []byte) bool {
	if len(b) > uuidTextLen {
		return false
	}
	for i, c := range b {
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		default:
			if !isLowerHex(c) {
				return false
			}
		}
	}
	return true
}

func isLowerHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}
