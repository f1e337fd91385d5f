package engine

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownTier = errors.New("unknown tier")

type Config struct {
	DefenseScale       float64       `json:"defense_scale" yaml:"defense_scale"`
	NoiseMagnitude     int64         `json:"noise_magnitude" yaml:"noise_magnitude"`
	TimeLimitMs        int           `json:"time_limit_ms" yaml:"time_limit_ms"`
	MaxDepth           int           `json:"max_depth" yaml:"max_depth"`
	EnableThreatSearch bool          `json:"enable_threat_search" yaml:"enable_threat_search"`
	ThreatDepth        int           `json:"threat_depth" yaml:"threat_depth"`
	ThreatTimeLimitMs  int           `json:"threat_time_limit_ms" yaml:"threat_time_limit_ms"`
	TTSize             uint64        `json:"tt_size" yaml:"tt_size"`
	TTReplace          ReplacePolicy `json:"tt_replace" yaml:"tt_replace"`
	NodeCheckInterval  uint64        `json:"node_check_interval" yaml:"node_check_interval"`
	LogSearchStats     bool          `json:"log_search_stats" yaml:"log_search_stats"`
}

const (
	TierLevel2  = "level2"
	TierLevel3  = "level3"
	TierFinal   = "final"
	DefaultTier = TierLevel3
)

// DefaultConfig is the level3 preset.
func DefaultConfig() Config {
	return Config{
		DefenseScale:       1.1,
		NoiseMagnitude:     0,
		TimeLimitMs:        1000,
		MaxDepth:           20,
		EnableThreatSearch: true,
		ThreatDepth:        12,
		ThreatTimeLimitMs:  200,
		TTSize:             1 << 18,
		TTReplace:          ReplaceAlways,
		NodeCheckInterval:  1024,
		LogSearchStats:     true,
	}
}

var tiers = map[string]func() Config{
	TierLevel2: func() Config {
		cfg := DefaultConfig()
		cfg.DefenseScale = 1.3
		cfg.TimeLimitMs = 2000
		cfg.EnableThreatSearch = false
		return cfg
	},
	TierLevel3: DefaultConfig,
	TierFinal: func() Config {
		cfg := DefaultConfig()
		cfg.DefenseScale = 1.2
		cfg.NoiseMagnitude = 20000
		return cfg
	},
}

// TierConfig returns the preset for a named difficulty tier.
func TierConfig(name string) (Config, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultTier
	}
	preset, ok := tiers[key]
	if !ok {
		return Config{}, errors.Wrapf(ErrUnknownTier, "%q", name)
	}
	return preset(), nil
}

func TierNames() []string {
	names := make([]string, 0, len(tiers))
	for name := range tiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Config) Validate() error {
	switch {
	case c.DefenseScale <= 1:
		return errors.Errorf("defense_scale must be > 1, got %v", c.DefenseScale)
	case c.NoiseMagnitude < 0:
		return errors.Errorf("noise_magnitude must be >= 0, got %d", c.NoiseMagnitude)
	case c.MaxDepth < 1:
		return errors.Errorf("max_depth must be >= 1, got %d", c.MaxDepth)
	case c.EnableThreatSearch && c.ThreatDepth < 1:
		return errors.Errorf("threat_depth must be >= 1 when threat search is enabled, got %d", c.ThreatDepth)
	case c.TTSize == 0:
		return errors.New("tt_size must be > 0")
	case c.NodeCheckInterval == 0:
		return errors.New("node_check_interval must be > 0")
	}
	return nil
}
