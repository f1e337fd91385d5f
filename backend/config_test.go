package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gomoku.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	tier, cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, engine.DefaultTier, tier)
	require.Equal(t, engine.DefaultConfig(), cfg)
}

func TestLoadConfigFileOverridesTier(t *testing.T) {
	path := writeConfigFile(t, "tier: level2\ntime_limit_ms: 750\ntt_replace: depth\n")
	tier, cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, engine.TierLevel2, tier)
	require.Equal(t, 750, cfg.TimeLimitMs)
	require.Equal(t, engine.ReplaceDepthPreferred, cfg.TTReplace)
	require.Equal(t, 1.3, cfg.DefenseScale)
	require.False(t, cfg.EnableThreatSearch)
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	path := writeConfigFile(t, "tier: level2\nmax_depth: 9\n")
	t.Setenv("GOMOKU_TIER", "final")
	t.Setenv("GOMOKU_MAX_DEPTH", "7")
	t.Setenv("GOMOKU_THREAT_SEARCH", "off")

	tier, cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, engine.TierFinal, tier)
	require.Equal(t, 7, cfg.MaxDepth)
	require.Equal(t, int64(20000), cfg.NoiseMagnitude)
	require.False(t, cfg.EnableThreatSearch)
}

func TestLoadConfigErrors(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, _, err = loadConfig(writeConfigFile(t, "tier: grandmaster\n"))
	require.True(t, errors.Is(err, engine.ErrUnknownTier), "got %v", err)

	_, _, err = loadConfig(writeConfigFile(t, "tt_replace: sometimes\n"))
	require.Error(t, err)

	_, _, err = loadConfig(writeConfigFile(t, "max_depth: 0\n"))
	require.Error(t, err)
}

func TestConfigStoreRejectsInvalid(t *testing.T) {
	store := NewConfigStore(engine.DefaultTier, engine.DefaultConfig())
	bad := engine.DefaultConfig()
	bad.TTSize = 0
	require.Error(t, store.Update(engine.TierFinal, bad))
	require.Equal(t, engine.DefaultTier, store.Tier())

	good := engine.DefaultConfig()
	good.MaxDepth = 4
	require.NoError(t, store.Update(engine.TierFinal, good))
	require.Equal(t, 4, store.Get().MaxDepth)
}
