// Package config resolves the tool's settings from viper into mediation
// options.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pathbox-dev/pathbox/internal/classify"
	"github.com/pathbox-dev/pathbox/internal/pathbox"
)

// Config holds the user-tunable mediation policy. The default access mode is
// deliberately configurable: the right default for untagged path arguments
// depends on the conventions of the guest being run.
type Config struct {
	// Magic is the inference level: none, escapes, readonly, or auto.
	Magic string

	// DefaultMode is the access granted to untagged paths at the auto
	// level: auto (read existing, create missing) or readonly.
	DefaultMode string

	// ExtensionsFile optionally points at a YAML document overriding the
	// extension heuristic.
	ExtensionsFile string

	// MediateEnv lists environment variable names whose values are
	// classified and rewritten like arguments.
	MediateEnv []string
}

// SetDefaults registers the config defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("magic", "auto")
	v.SetDefault("default_mode", "auto")
	v.SetDefault("extensions_file", "")
	v.SetDefault("mediate_env", []string{})
}

// FromViper reads the resolved settings.
func FromViper(v *viper.Viper) Config {
	return Config{
		Magic:          v.GetString("magic"),
		DefaultMode:    v.GetString("default_mode"),
		ExtensionsFile: v.GetString("extensions_file"),
		MediateEnv:     v.GetStringSlice("mediate_env"),
	}
}

// Options validates the config and converts it into mediation options.
func (c Config) Options() (pathbox.Options, error) {
	level, err := classify.ParseLevel(c.Magic)
	if err != nil {
		return pathbox.Options{}, fmt.Errorf("invalid magic setting: %w", err)
	}

	mode, err := classify.ParseMode(c.DefaultMode)
	if err != nil {
		return pathbox.Options{}, fmt.Errorf("invalid default_mode setting: %w", err)
	}

	var extensions *classify.ExtensionSet
	if c.ExtensionsFile != "" {
		extensions, err = classify.LoadExtensions(c.ExtensionsFile)
		if err != nil {
			return pathbox.Options{}, err
		}
	}

	return pathbox.Options{
		Level:       level,
		DefaultMode: mode,
		Extensions:  extensions,
	}, nil
}
