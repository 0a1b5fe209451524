// Package config holds the runtime options of the contour tracer.
package config

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/nowakf/colour-to-shape/internal/hue"
	"github.com/nowakf/colour-to-shape/internal/input"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Calibration methods.
const (
	CalibrationFixed  = "fixed"
	CalibrationKMeans = "kmeans"
)

// Config represents the complete runtime configuration
type Config struct {
	HuePolicy   string   `yaml:"hue_policy"`  // clamp, wrap
	Calibration string   `yaml:"calibration"` // fixed, kmeans
	Clusters    int      `yaml:"clusters"`    // k for kmeans calibration
	QuitKeys    []string `yaml:"quit_keys"`   // empty: every key advances
	Profile     string   `yaml:"profile"`     // stored hue profile name
	DBPath      string   `yaml:"db_path"`     // empty disables persistence
	Tray        bool     `yaml:"tray"`
	LogLevel    string   `yaml:"log_level"`  // debug, info, warn, error
	LogFormat   string   `yaml:"log_format"` // text, json
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		HuePolicy:   hue.PolicyClamp.String(),
		Calibration: CalibrationFixed,
		Clusters:    8,
		QuitKeys:    []string{"q", "esc"},
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads a YAML configuration file over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return cfg, nil
}

// RegisterFlags binds command-line flags to the fields of cfg, using the
// current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.HuePolicy, "hue-policy", c.HuePolicy, "hue band edge policy: clamp or wrap")
	fs.StringVar(&c.Calibration, "calibration", c.Calibration, "hue discovery: fixed or kmeans")
	fs.IntVar(&c.Clusters, "clusters", c.Clusters, "number of hue clusters for kmeans calibration")
	fs.Func("quit-keys", "comma-separated quit keys, empty for none (default \"q,esc\")", func(s string) error {
		c.QuitKeys = splitList(s)
		return nil
	})
	fs.StringVar(&c.Profile, "profile", c.Profile, "name of the stored hue profile")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path, empty disables persistence")
	fs.BoolVar(&c.Tray, "tray", c.Tray, "show a system tray menu")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	switch c.Calibration {
	case CalibrationFixed:
	case CalibrationKMeans:
		if c.Clusters < 1 || c.Clusters > 256 {
			return errors.Errorf("clusters must be in [1,256], got %d", c.Clusters)
		}
	default:
		return errors.Errorf("unknown calibration %q", c.Calibration)
	}
	if _, err := c.QuitKeyCodes(); err != nil {
		return err
	}
	if c.Profile != "" && c.DBPath == "" {
		return errors.New("profile requires db_path")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Policy returns the parsed hue band policy.
func (c *Config) Policy() (hue.Policy, error) {
	return hue.ParsePolicy(c.HuePolicy)
}

// Discoverer returns the configured calibration method.
func (c *Config) Discoverer() hue.Discoverer {
	if c.Calibration == CalibrationKMeans {
		return hue.DefaultKMeans(c.Clusters)
	}
	return hue.DefaultFixedHues()
}

// QuitKeyCodes returns the key codes of the quit keys.
func (c *Config) QuitKeyCodes() ([]int, error) {
	codes := make([]int, 0, len(c.QuitKeys))
	for _, k := range c.QuitKeys {
		code, err := input.ParseKey(k)
		if err != nil {
			return nil, errors.Wrap(err, "quit_keys")
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return l, nil
}
