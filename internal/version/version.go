// Package version exposes build metadata for the pathbox CLI.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version, set by build flags.
	Version = "dev"
	// Commit is the git commit hash, set by build flags.
	Commit = "unknown"
)

// Full returns the version with commit and toolchain details.
func Full() string {
	return fmt.Sprintf("%s (%s) %s %s/%s",
		Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
