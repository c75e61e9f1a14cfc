package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmc/wasmc/internal/config"
)

func TestDefaultHasOptimizeOn(t *testing.T) {
	cfg := config.Default()
	require.True(t, cfg.Optimize)
	require.False(t, cfg.TrapOnMatch)
	require.Empty(t, cfg.Prelude)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wasmc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimize: false\ntrap_on_match: true\nprelude: |\n  datatype bool = true | false\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.False(t, cfg.Optimize)
	require.True(t, cfg.TrapOnMatch)
	require.Contains(t, cfg.Prelude, "datatype bool")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
