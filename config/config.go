// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SelectConfig is the thresholds for picking representative alignments
type SelectConfig struct {
	// the minimum query coverage of a seed alignment
	MinSeedCoverage float64 `mapstructure:"min-seed-coverage"`

	// the fraction of an alignment's CDS that it must share with a seed
	// for it to be classified against the seed
	MinOverlapForChild float64 `mapstructure:"min-overlap"`

	// children score above seed score times this fraction
	MinScoreFraction float64 `mapstructure:"min-score-fraction"`

	// the maximum number of children per seed
	TopNPerSeed int `mapstructure:"top-n"`

	// the maximum fraction of a seed's CDS a sub-locus candidate may cover.
	// zero turns sub-loci off
	MaxSubLocusParentCoverage float64 `mapstructure:"max-sublocus-parent-coverage"`

	// the minimum query coverage of a sub-locus candidate
	MinSubLocusCoverage float64 `mapstructure:"min-sublocus-coverage"`
}

// BridgeConfig is the thresholds, relative to a locus' mean CDS
// coverage, for entering and leaving a low coverage bridge
type BridgeConfig struct {
	Enter float64 `mapstructure:"enter"`
	Exit  float64 `mapstructure:"exit"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// Select settings
	Select SelectConfig `mapstructure:"select"`

	// Bridge detection settings
	Bridge BridgeConfig `mapstructure:"bridge"`

	// the number of loci processed at once
	Threads int `mapstructure:"threads"`

	// whether to log debug messages
	Verbose bool `mapstructure:"verbose"`
}

func init() {
	setDefaults()
}

// setDefaults registers the default value of every setting with viper
func setDefaults() {
	viper.SetDefault("select.min-seed-coverage", 0.0)
	viper.SetDefault("select.min-overlap", 0.01)
	viper.SetDefault("select.min-score-fraction", 0.9)
	viper.SetDefault("select.top-n", 10)
	viper.SetDefault("select.max-sublocus-parent-coverage", 0.8)
	viper.SetDefault("select.min-sublocus-coverage", 0.9)

	viper.SetDefault("bridge.enter", 0.2)
	viper.SetDefault("bridge.exit", 0.5)

	viper.SetDefault("threads", 1)
	viper.SetDefault("verbose", false)
}

// New returns a new Config struct populated by Viper settings
// (the defaults, a settings file if one was set and command line flags)
func New() (*Config, error) {
	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", settings, err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that thresholds are in range
func (c *Config) Validate() error {
	fractions := map[string]float64{
		"select.min-seed-coverage":            c.Select.MinSeedCoverage,
		"select.min-overlap":                  c.Select.MinOverlapForChild,
		"select.max-sublocus-parent-coverage": c.Select.MaxSubLocusParentCoverage,
		"select.min-sublocus-coverage":        c.Select.MinSubLocusCoverage,
	}
	for key, f := range fractions {
		if f < 0 || f > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", key, f)
		}
	}

	if c.Select.MinScoreFraction < 0 {
		return fmt.Errorf("select.min-score-fraction must not be negative, got %v", c.Select.MinScoreFraction)
	}
	if c.Select.TopNPerSeed < 0 {
		return fmt.Errorf("select.top-n must not be negative, got %d", c.Select.TopNPerSeed)
	}

	if c.Bridge.Enter <= 0 || c.Bridge.Exit <= c.Bridge.Enter {
		return fmt.Errorf("bridge thresholds need 0 < enter < exit, got enter %v and exit %v", c.Bridge.Enter, c.Bridge.Exit)
	}

	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	return nil
}
