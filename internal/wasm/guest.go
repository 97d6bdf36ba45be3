package wasm

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"
	"golang.org/x/sync/errgroup"
)

// Guest is a compiled module ready to run.
type Guest struct {
	name    string
	module  wazero.CompiledModule
	runtime wazero.Runtime
}

// RunConfig carries the payload handed to the guest: the internal argument
// vector, the mediated environment, and the output sinks. Stdout and Stderr
// are typically retranslating writers; each stream gets its own.
type RunConfig struct {
	Args   []string
	Env    []string // KEY=VALUE entries
	Stdout io.Writer
	Stderr io.Writer
}

// Run instantiates and executes the guest, returning its exit code. Output
// flows through pipes so retranslation runs concurrently with guest
// execution rather than after it.
func (g *Guest) Run(ctx context.Context, cfg RunConfig) (int, error) {
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()

	var pumps errgroup.Group
	pumps.Go(func() error {
		_, err := io.Copy(cfg.Stdout, stdoutR)
		return err
	})
	pumps.Go(func() error {
		_, err := io.Copy(cfg.Stderr, stderrR)
		return err
	})

	config := wazero.NewModuleConfig().
		WithName(g.name).
		WithArgs(append([]string{g.name}, cfg.Args...)...).
		WithStdout(stdoutW).
		WithStderr(stderrW).
		WithSysWalltime().
		WithSysNanotime().
		WithSysNanosleep().
		WithRandSource(rand.Reader)
	for _, entry := range cfg.Env {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			closePipes(stdoutW, stderrW)
			_ = pumps.Wait()
			return 0, fmt.Errorf("malformed environment entry %q", entry)
		}
		config = config.WithEnv(key, value)
	}

	// Instantiating a WASI command module runs its _start function.
	mod, runErr := g.runtime.InstantiateModule(ctx, g.module, config)
	if mod != nil {
		_ = mod.Close(ctx)
	}

	closePipes(stdoutW, stderrW)
	if err := pumps.Wait(); err != nil {
		return 0, fmt.Errorf("output pump failed: %w", err)
	}

	if runErr != nil {
		var exitErr *sys.ExitError
		if errors.As(runErr, &exitErr) {
			return int(exitErr.ExitCode()), nil
		}
		return 0, fmt.Errorf("guest %s failed: %w", g.name, runErr)
	}
	return 0, nil
}

func closePipes(ws ...*io.PipeWriter) {
	for _, w := range ws {
		_ = w.Close()
	}
}
