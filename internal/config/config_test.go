package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathbox-dev/pathbox/internal/classify"
	"github.com/pathbox-dev/pathbox/internal/config"
)

func Test_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg := config.FromViper(v)
	assert.Equal(t, "auto", cfg.Magic)
	assert.Equal(t, "auto", cfg.DefaultMode)
	assert.Empty(t, cfg.MediateEnv)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, classify.LevelAuto, opts.Level)
	assert.Equal(t, classify.ModeAuto, opts.DefaultMode)
	assert.Nil(t, opts.Extensions)
}

func Test_Options_ReadonlyPolicy(t *testing.T) {
	cfg := config.Config{Magic: "readonly", DefaultMode: "readonly"}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, classify.LevelReadonly, opts.Level)
	assert.Equal(t, classify.ModeRead, opts.DefaultMode)
}

func Test_Options_Invalid(t *testing.T) {
	_, err := config.Config{Magic: "lots", DefaultMode: "auto"}.Options()
	require.Error(t, err)

	_, err = config.Config{Magic: "auto", DefaultMode: "chaotic"}.Options()
	require.Error(t, err)
}

func Test_Options_ExtensionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deny:\n  - toml\n"), 0o644))

	opts, err := config.Config{Magic: "auto", DefaultMode: "auto", ExtensionsFile: path}.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Extensions)
	assert.False(t, opts.Extensions.Match("toml"))
	assert.True(t, opts.Extensions.Match("txt"))
}
