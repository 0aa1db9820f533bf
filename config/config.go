// Package config provides configuration loading and access for the
// simulation core's tunable constants. These are baseline values folded
// into a Simulation at construction time; they do not replace the wire
// spec's pinned constants (damage tables, resistance caps) which are
// always the fixed values in the simulation package's combat.go.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rtscore/fixed"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds simulation-construction-time tunables.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Movement   MovementConfig   `yaml:"movement"`
	Economy    EconomyConfig    `yaml:"economy"`
	Production ProductionConfig `yaml:"production"`
	Visibility VisibilityConfig `yaml:"visibility"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived holds Fixed-point forms of the float tunables above,
	// computed once after loading so the hot tick path never converts
	// a float to Fixed at runtime.
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the default NavGrid dimensions for a freshly
// constructed simulation that has not been handed an explicit grid by
// its host.
type GridConfig struct {
	Width    uint32  `yaml:"width"`
	Height   uint32  `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// MovementConfig holds movement/arrival tunables.
type MovementConfig struct {
	ArrivalEpsilon float64 `yaml:"arrival_epsilon"`
}

// EconomyConfig holds harvester/economy tunables.
type EconomyConfig struct {
	InteractionDistance    float64 `yaml:"interaction_distance"`
	DefaultStorageCapacity int32   `yaml:"default_storage_capacity"`
}

// ProductionConfig holds production-queue tunables.
type ProductionConfig struct {
	DefaultMaxQueueSize int     `yaml:"default_max_queue_size"`
	DefaultRefundRate   float64 `yaml:"default_refund_rate"`
}

// VisibilityConfig holds line-of-sight/vision-range fallback tunables.
type VisibilityConfig struct {
	AttackRangeMultiplier float64 `yaml:"attack_range_multiplier"`
	DefaultRange          float64 `yaml:"default_range"`
}

// BookmarksConfig holds thresholds for automatic match-highlight detection
// (see telemetry.BookmarkDetector).
type BookmarksConfig struct {
	EconomicBoomMultiplier float64 `yaml:"economic_boom_multiplier"`
	EconomicBoomMinIncome  int32   `yaml:"economic_boom_min_income"`

	ComebackMinUnits        int `yaml:"comeback_min_units"`
	ComebackRecoveryFactor  int `yaml:"comeback_recovery_factor"`
	ComebackMinFinal        int `yaml:"comeback_min_final"`

	SiegeDropPercent float64 `yaml:"siege_drop_percent"`
	SiegeMinDrop     int     `yaml:"siege_min_drop"`

	StalemateMinUnits     int     `yaml:"stalemate_min_units"`
	StalemateCVThreshold  float64 `yaml:"stalemate_cv_threshold"`
	StalemateWindows      int     `yaml:"stalemate_windows"`
}

// DerivedConfig holds Fixed-point versions of the float tunables above.
type DerivedConfig struct {
	CellSize               fixed.Fixed
	ArrivalEpsilonSq        fixed.Fixed
	InteractionDistanceSq   fixed.Fixed
	DefaultVisibilityRange  fixed.Fixed
	AttackRangeMultiplier   fixed.Fixed
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Default returns the embedded-defaults configuration without touching
// the package-level global, for callers (tests, library consumers) that
// want a config value without Init/Cfg's singleton discipline.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults failed to parse: %v", err))
	}
	return cfg
}

// WriteYAML marshals the configuration back to YAML and writes it to
// path, so a match's output directory carries the exact tunables it
// ran with.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func floatToFixed(v float64) fixed.Fixed {
	whole := int64(v)
	frac := v - float64(whole)
	return fixed.FromInt(whole).Add(fixed.Fixed(int64(frac * float64(int64(1)<<fixed.Fractional))))
}

func (c *Config) computeDerived() {
	c.Derived.CellSize = floatToFixed(c.Grid.CellSize)
	arrival := floatToFixed(c.Movement.ArrivalEpsilon)
	c.Derived.ArrivalEpsilonSq = arrival.Mul(arrival)
	interaction := floatToFixed(c.Economy.InteractionDistance)
	c.Derived.InteractionDistanceSq = interaction.Mul(interaction)
	c.Derived.DefaultVisibilityRange = floatToFixed(c.Visibility.DefaultRange)
	c.Derived.AttackRangeMultiplier = floatToFixed(c.Visibility.AttackRangeMultiplier)
}
