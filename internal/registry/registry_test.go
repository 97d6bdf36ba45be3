package registry_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathbox-dev/pathbox/internal/classify"
	"github.com/pathbox-dev/pathbox/internal/registry"
)

func Test_Register_SyntheticName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantExt string
	}{
		{name: "simple extension", path: "Cargo.toml", wantExt: "toml"},
		{name: "extension survives the heuristic failing", path: "./file.silly!", wantExt: "silly!"},
		{name: "case preserved", path: "photo.JPEG", wantExt: "JPEG"},
		{name: "no extension", path: "/etc/hosts", wantExt: ""},
		{name: "dotfile has no extension", path: ".gitignore", wantExt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := registry.New()
			entry := r.Register(tt.path, classify.ModeRead)

			assert.Equal(t, tt.path, entry.OriginalPath)
			assert.Equal(t, tt.wantExt, entry.Extension)

			// Synthetic name is the canonical UUID text plus the
			// original extension, if any.
			if tt.wantExt == "" {
				assert.Equal(t, entry.ID.String(), entry.SyntheticName)
			} else {
				assert.Equal(t, entry.ID.String()+"."+tt.wantExt, entry.SyntheticName)
			}
			_, err := uuid.Parse(entry.ID.String())
			assert.NoError(t, err)
		})
	}
}

func Test_Register_FreshIDPerCall(t *testing.T) {
	r := registry.New()
	a := r.Register("same.txt", classify.ModeRead)
	b := r.Register("same.txt", classify.ModeRead)

	assert.NotEqual(t, a.ID, b.ID, "the same path registered twice gets distinct identifiers")
	assert.Equal(t, 2, r.Len())
}

func Test_Lookups(t *testing.T) {
	r := registry.New()
	entry := r.Register("Cargo.toml", classify.ModeAuto)

	byID, ok := r.LookupID(entry.ID.String())
	require.True(t, ok)
	assert.Same(t, entry, byID)

	byName, ok := r.LookupName(entry.SyntheticName)
	require.True(t, ok)
	assert.Same(t, entry, byName)

	_, ok = r.LookupID(uuid.New().String())
	assert.False(t, ok, "identifiers this registry never issued are not found")

	_, ok = r.LookupName("unrelated.toml")
	assert.False(t, ok)
}

func Test_Entries_Order(t *testing.T) {
	r := registry.New()
	first := r.Register("a.txt", classify.ModeRead)
	second := r.Register("b.txt", classify.ModeWrite)

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, first, entries[0])
	assert.Same(t, second, entries[1])
	assert.Equal(t, classify.ModeWrite, entries[1].Mode)
}
