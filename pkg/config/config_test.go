package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("log-json", false, "")
	cmd.Flags().Uint16("namespace", 1, "")
	cmd.Flags().String("seed-file", "", "")
	return cmd
}

func TestFromFlagsReadsDefaults(t *testing.T) {
	cfg, err := FromFlags(newTestCmd())
	require.NoError(t, err)
	assert.Equal(t, uint16(1), cfg.Namespace)
	assert.Equal(t, "opcuad-*", cfg.TempDirPrefix)
	assert.Empty(t, cfg.SeedFile)
	assert.Equal(t, "info", string(cfg.LogLevel))
	assert.False(t, cfg.LogJSON)
}

func TestFromFlagsReadsOverrides(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("log-level", "debug"))
	require.NoError(t, cmd.Flags().Set("log-json", "true"))
	require.NoError(t, cmd.Flags().Set("namespace", "2"))
	require.NoError(t, cmd.Flags().Set("seed-file", "seed.json"))

	cfg, err := FromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), cfg.Namespace)
	assert.Equal(t, "seed.json", cfg.SeedFile)
	assert.Equal(t, "debug", string(cfg.LogLevel))
	assert.True(t, cfg.LogJSON)
}

func TestFromFlagsMissingFlagErrors(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	_, err := FromFlags(cmd)
	assert.Error(t, err)
}

func TestLoadSeedEmptyPath(t *testing.T) {
	nodes, err := LoadSeed("")
	require.NoError(t, err)
	assert.Nil(t, nodes)
}

func TestLoadSeedParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"browse_name":"Device1"},{"browse_name":"Device2"}]`), 0o600))

	nodes, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Device1", nodes[0].BrowseName)
	assert.Equal(t, "Device2", nodes[1].BrowseName)
}

func TestLoadSeedMissingFileErrors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLogConfigAdapts(t *testing.T) {
	cfg := Config{LogLevel: "warn", LogJSON: true}
	lc := cfg.LogConfig()
	assert.Equal(t, "warn", string(lc.Level))
	assert.True(t, lc.JSONOutput)
}
