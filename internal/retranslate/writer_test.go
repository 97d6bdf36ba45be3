package retranslate_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathbox-dev/pathbox/internal/classify"
	"github.com/pathbox-dev/pathbox/internal/registry"
	"github.com/pathbox-dev/pathbox/internal/retranslate"
)

func Test_Writer_IdentifierAlone(t *testing.T) {
	r := registry.New()
	entry := r.Register("Cargo.toml", classify.ModeRead)

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	_, err := w.Write([]byte(entry.ID.String()))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, "Cargo.toml", buf.String())
}

func Test_Writer_FullSyntheticName(t *testing.T) {
	r := registry.New()
	entry := r.Register("Cargo.toml", classify.ModeRead)

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	line := entry.SyntheticName + ": [dependencies]\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, len(line), n)
	assert.Equal(t, "Cargo.toml: [dependencies]\n", buf.String())
}

func Test_Writer_UnrelatedTextUntouched(t *testing.T) {
	r := registry.New()

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	input := "ordinary output\nwith bytes \x00\xff and hex deadbeef\n"
	_, err := w.Write([]byte(input))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, input, buf.String())
}

func Test_Writer_UnknownUUIDPassesThrough(t *testing.T) {
	r := registry.New()
	r.Register("mine.txt", classify.ModeRead)

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	foreign := uuid.New().String()
	_, err := w.Write([]byte("saw " + foreign + " in a log\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, "saw "+foreign+" in a log\n", buf.String())
}

func Test_Writer_TokenSplitAcrossWrites(t *testing.T) {
	r := registry.New()
	entry := r.Register("input.txt", classify.ModeRead)
	name := entry.SyntheticName

	// Split the synthetic filename at every byte boundary.
	for cut := 1; cut < len(name); cut++ {
		var buf bytes.Buffer
		w := retranslate.NewWriter(&buf, r)

		_, err := w.Write([]byte("x " + name[:cut]))
		require.NoError(t, err)
		_, err = w.Write([]byte(name[cut:] + " y"))
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		assert.Equal(t, "x input.txt y", buf.String(), "split at %d", cut)
	}
}

func Test_Writer_PartialTokenAtEndOfStream(t *testing.T) {
	r := registry.New()
	entry := r.Register("input.txt", classify.ModeRead)
	partial := entry.ID.String()[:20]

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	_, err := w.Write([]byte("tail: " + partial))
	require.NoError(t, err)

	// The possible token is held back until the stream settles.
	assert.Equal(t, "tail: ", buf.String())

	require.NoError(t, w.Flush())
	assert.Equal(t, "tail: "+partial, buf.String())
}

func Test_Writer_IdentifierWithoutItsExtension(t *testing.T) {
	r := registry.New()
	entry := r.Register("notes.md", classify.ModeRead)

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	// The guest printed the bare identifier followed by ordinary text,
	// not the synthetic extension.
	_, err := w.Write([]byte(entry.ID.String() + ".bak\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, "notes.md.bak\n", buf.String())
}

func Test_Writer_MultipleIdentifiersOneWrite(t *testing.T) {
	r := registry.New()
	a := r.Register("a.txt", classify.ModeRead)
	b := r.Register("b.txt", classify.ModeWrite)

	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, r)

	_, err := w.Write([]byte(a.SyntheticName + " -> " + b.SyntheticName + "\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, "a.txt -> b.txt\n", buf.String())
}

func Test_Writer_FlushWithoutTail(t *testing.T) {
	var buf bytes.Buffer
	w := retranslate.NewWriter(&buf, registry.New())

	_, err := w.Write([]byte("done\n"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())
	assert.Equal(t, "done\n", buf.String())
}
