package main

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

// fileConfig is the YAML document named by GOMOKU_CONFIG. Tier picks the
// preset; every other key overrides a field of it.
type fileConfig struct {
	Tier string `yaml:"tier"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	tier   string
	config engine.Config
}

func NewConfigStore(tier string, cfg engine.Config) *ConfigStore {
	return &ConfigStore{tier: tier, config: cfg}
}

func (c *ConfigStore) Get() engine.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Tier() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tier
}

func (c *ConfigStore) Update(tier string, cfg engine.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.tier = tier
	c.config = cfg
	c.mu.Unlock()
	return nil
}

// loadConfig resolves the engine configuration: tier preset, then the YAML
// file, then environment overrides.
func loadConfig(path string) (string, engine.Config, error) {
	var raw []byte
	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", engine.Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return "", engine.Config{}, errors.Wrapf(err, "parse config %s", path)
		}
		raw = data
	}

	tier := getenv("GOMOKU_TIER", file.Tier)
	if tier == "" {
		tier = engine.DefaultTier
	}
	cfg, err := engine.TierConfig(tier)
	if err != nil {
		return "", engine.Config{}, err
	}
	if raw != nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return "", engine.Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return "", engine.Config{}, err
	}
	return tier, cfg, nil
}

func applyEnvOverrides(cfg *engine.Config) {
	cfg.TimeLimitMs = getenvInt("GOMOKU_TIME_LIMIT_MS", cfg.TimeLimitMs)
	cfg.MaxDepth = getenvInt("GOMOKU_MAX_DEPTH", cfg.MaxDepth)
	cfg.DefenseScale = getenvFloat("GOMOKU_DEFENSE_SCALE", cfg.DefenseScale)
	cfg.NoiseMagnitude = int64(getenvInt("GOMOKU_NOISE", int(cfg.NoiseMagnitude)))
	cfg.EnableThreatSearch = getenvBool("GOMOKU_THREAT_SEARCH", cfg.EnableThreatSearch)
	cfg.ThreatTimeLimitMs = getenvInt("GOMOKU_THREAT_TIME_LIMIT_MS", cfg.ThreatTimeLimitMs)
	cfg.LogSearchStats = getenvBool("GOMOKU_LOG_SEARCH_STATS", cfg.LogSearchStats)
}
