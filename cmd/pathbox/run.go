package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pathbox-dev/pathbox/internal/config"
	"github.com/pathbox-dev/pathbox/internal/pathbox"
	"github.com/pathbox-dev/pathbox/internal/wasm"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <guest.wasm> [guest args...]",
	Short: "Run a WASM guest with mediated file access",
	Long: `Run a guest module in a sandbox. Guest arguments that look like paths are
opened with scoped access and replaced by synthetic filenames; the guest can
reach only those files, and its output shows the original paths.

Argument grammar:
  file.txt            inferred path (extension heuristic)
  ./anything          explicit path, default access
  %read:<path>        explicit path, read-only
  %write:<path>       explicit path, write/create/truncate
  %append:<path>      explicit path, append-only
  %verbatim:<text>    literal argument, no inference`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runGuestAction(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("magic", "auto", "Inference level: none, escapes, readonly, auto")
	runCmd.Flags().String("default-mode", "auto", "Access for untagged paths: auto, readonly")
	runCmd.Flags().StringSlice("env", nil, "Environment variables to mediate and pass to the guest")
	runCmd.Flags().String("extensions-file", "", "YAML file overriding the extension heuristic")

	// Flags override the config file under the same keys.
	_ = viper.BindPFlag("magic", runCmd.Flags().Lookup("magic"))
	_ = viper.BindPFlag("default_mode", runCmd.Flags().Lookup("default-mode"))
	_ = viper.BindPFlag("mediate_env", runCmd.Flags().Lookup("env"))
	_ = viper.BindPFlag("extensions_file", runCmd.Flags().Lookup("extensions-file"))
}

// runGuestAction mediates the guest arguments, launches the guest, and
// returns its exit code.
func runGuestAction(ctx context.Context, modulePath string, guestArgs []string) (int, error) {
	cfg := config.FromViper(viper.GetViper())
	opts, err := cfg.Options()
	if err != nil {
		return 0, err
	}

	box := pathbox.New(opts)
	defer func() {
		_ = box.Release()
	}()

	slog.Debug("external args", "args", guestArgs)

	internalArgs, err := box.ProcessArgs(guestArgs)
	if err != nil {
		return 0, err
	}

	slog.Debug("internal args", "args", internalArgs)

	env := make([]string, 0, len(cfg.MediateEnv))
	for _, name := range cfg.MediateEnv {
		if value, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+value)
		}
	}
	internalEnv, err := box.ProcessVars(env)
	if err != nil {
		return 0, err
	}

	slog.Debug("mediation complete",
		"grants", box.HandleCount(), "env", len(internalEnv))

	wasmBytes, err := os.ReadFile(modulePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read guest module: %w", err)
	}

	runtime, err := wasm.NewRuntime(ctx, box)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = runtime.Close(ctx)
	}()

	guest, err := runtime.LoadGuest(ctx, filepath.Base(modulePath), wasmBytes)
	if err != nil {
		return 0, err
	}

	// One retranslating filter per stream, sharing the frozen registry.
	stdout := box.OutputWriter(os.Stdout)
	stderr := box.OutputWriter(os.Stderr)

	code, runErr := guest.Run(ctx, wasm.RunConfig{
		Args:   internalArgs,
		Env:    internalEnv,
		Stdout: stdout,
		Stderr: stderr,
	})

	// Drain held-back bytes even when the guest failed.
	_ = stdout.Flush()
	_ = stderr.Flush()

	if runErr != nil {
		return 0, runErr
	}

	slog.Debug("guest finished", "exit_code", code)
	return code, nil
}
