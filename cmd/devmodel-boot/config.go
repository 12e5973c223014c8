package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/devmodel/devmodel-go/pkg/phy"
)

// Config holds the boot configuration. Values come from an optional YAML
// file, overridden by command-line flags.
type Config struct {
	Tree             string     `yaml:"tree"`
	EventLog         string     `yaml:"event_log"`
	LogLevel         string     `yaml:"log_level"`
	ProbeOnDeviceAdd bool       `yaml:"probe_on_device_add"`
	Interactive      bool       `yaml:"interactive"`
	MDIO             MDIOConfig `yaml:"mdio"`
}

// MDIOConfig describes the simulated management bus scanned at the late
// initcall level.
type MDIOConfig struct {
	BusID string      `yaml:"bus_id"`
	PHYs  []PHYConfig `yaml:"phys"`
}

// PHYConfig describes one simulated PHY.
type PHYConfig struct {
	Addr uint8  `yaml:"addr"`
	ID   uint32 `yaml:"id"`

	// Features lists the supported modes: 10half, 10full, 100half,
	// 100full. Empty means all four.
	Features []string `yaml:"features"`

	// Link connects a link partner advertising every mode.
	Link bool `yaml:"link"`
}

var featureBits = map[string]uint16{
	"10half":  phy.BMSR10Half,
	"10full":  phy.BMSR10Full,
	"100half": phy.BMSR100Half,
	"100full": phy.BMSR100Full,
}

// Abilities returns the BMSR ability bits for the configured features.
func (p PHYConfig) Abilities() (uint16, error) {
	if len(p.Features) == 0 {
		return phy.BMSR10Half | phy.BMSR10Full | phy.BMSR100Half | phy.BMSR100Full, nil
	}
	var bits uint16
	for _, f := range p.Features {
		b, ok := featureBits[strings.ToLower(f)]
		if !ok {
			return 0, fmt.Errorf("phy at address %d: unknown feature %q", p.Addr, f)
		}
		bits |= b
	}
	return bits, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:         "info",
		ProbeOnDeviceAdd: true,
		MDIO:             MDIOConfig{BusID: "sim-mdio"},
	}
}

// LoadConfigFile reads path over cfg. Keys missing from the file keep
// their current value.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyFlags copies the flags set on the command line from flags into cfg.
func ApplyFlags(fs *pflag.FlagSet, flags Config, cfg *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "tree":
			cfg.Tree = flags.Tree
		case "event-log":
			cfg.EventLog = flags.EventLog
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "probe-on-add":
			cfg.ProbeOnDeviceAdd = flags.ProbeOnDeviceAdd
		case "interactive":
			cfg.Interactive = flags.Interactive
		case "mdio-bus":
			cfg.MDIO.BusID = flags.MDIO.BusID
		}
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MDIO.BusID == "" && len(c.MDIO.PHYs) > 0 {
		return fmt.Errorf("mdio: bus_id required when phys are configured")
	}
	seen := make(map[uint8]bool)
	for _, p := range c.MDIO.PHYs {
		if p.Addr > phy.MaxAddr {
			return fmt.Errorf("mdio: address %d out of range (0-%d)", p.Addr, phy.MaxAddr)
		}
		if seen[p.Addr] {
			return fmt.Errorf("mdio: duplicate address %d", p.Addr)
		}
		seen[p.Addr] = true
		if _, err := p.Abilities(); err != nil {
			return fmt.Errorf("mdio: %w", err)
		}
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (debug, info, warn, error)", s)
}
