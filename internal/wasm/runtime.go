// Package wasm runs a guest module in a wazero sandbox. The guest receives
// the rewritten internal argument vector and reaches its files only through
// the preopen host calls; it has no ambient filesystem access.
package wasm

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/pathbox-dev/pathbox/internal/wasm/hostfuncs"
)

// Runtime manages the sandbox a guest executes in.
type Runtime struct {
	runtime wazero.Runtime
	host    *hostfuncs.FSHost
}

// NewRuntime creates a wazero runtime with WASI and the preopen host module
// instantiated. The opener backs every file the guest can reach.
func NewRuntime(ctx context.Context, opener hostfuncs.Opener) (*Runtime, error) {
	// Pure Go WASM runtime, no CGO required.
	r := wazero.NewRuntime(ctx)

	// Guests need basic WASI (clock, random, stdio); filesystem access
	// stays absent since no preopens are configured at the WASI level.
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	host, err := hostfuncs.Register(ctx, r, opener)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	return &Runtime{runtime: r, host: host}, nil
}

// LoadGuest compiles a guest module from bytes.
func (r *Runtime) LoadGuest(ctx context.Context, name string, wasmBytes []byte) (*Guest, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile guest %s: %w", name, err)
	}
	return &Guest{
		name:    name,
		module:  compiled,
		runtime: r.runtime,
	}, nil
}

// Host exposes the host-call state, mainly for teardown checks.
func (r *Runtime) Host() *hostfuncs.FSHost {
	return r.host
}

// Close closes the runtime and releases its resources.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
