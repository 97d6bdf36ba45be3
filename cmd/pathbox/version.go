package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathbox-dev/pathbox/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pathbox",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pathbox version %s\n", version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
