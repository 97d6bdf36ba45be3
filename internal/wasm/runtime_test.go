package wasm_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathbox-dev/pathbox/internal/apperrors"
	"github.com/pathbox-dev/pathbox/internal/wasm"
)

type emptyOpener struct{}

func (emptyOpener) Open(string) (*os.File, error)   { return nil, apperrors.ErrNotPreopened }
func (emptyOpener) Create(string) (*os.File, error) { return nil, apperrors.ErrNotPreopened }
func (emptyOpener) Append(string) (*os.File, error) { return nil, apperrors.ErrNotPreopened }

func Test_NewRuntime(t *testing.T) {
	ctx := context.Background()

	r, err := wasm.NewRuntime(ctx, emptyOpener{})
	require.NoError(t, err)
	require.NotNil(t, r.Host())
	require.NoError(t, r.Close(ctx))
}

func Test_LoadGuest_RejectsGarbage(t *testing.T) {
	ctx := context.Background()

	r, err := wasm.NewRuntime(ctx, emptyOpener{})
	require.NoError(t, err)
	defer r.Close(ctx)

	_, err = r.LoadGuest(ctx, "bogus", []byte("not a wasm module"))
	require.Error(t, err)
}
