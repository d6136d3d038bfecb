// Package config loads dcrx settings from a YAML file.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sarang095/dcrx/internal/lexer"
	"github.com/Sarang095/dcrx/internal/parser"
	"github.com/Sarang095/dcrx/internal/resolve"
)

const (
	// DefaultFilename is looked up in the working directory
	DefaultFilename = "dcrx.yaml"
	// EnvPath overrides the configuration file location
	EnvPath = "DCRX_CONFIG"
)

// Config holds the settings shared by every dcrx command
type Config struct {
	// Args override ARG defaults during resolution
	Args       map[string]string `yaml:"args"`
	Skip       []string          `yaml:"skip"`
	Match      string            `yaml:"match"`
	OnInvalid  string            `yaml:"on_invalid"`
	Resolution string            `yaml:"resolution"`
	LogLevel   string            `yaml:"log_level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Args == nil {
		c.Args = map[string]string{}
	}
	if c.Match == "" {
		c.Match = lexer.MatchLeading.String()
	}
	if c.OnInvalid == "" {
		c.OnInvalid = parser.Abort.String()
	}
	if c.Resolution == "" {
		c.Resolution = resolve.FixedPoint.String()
	}
	if c.LogLevel == "" {
		c.LogLevel = log.InfoLevel.String()
	}
}

// Validate checks that every enumerated setting has a known value
func (c *Config) Validate() error {
	if _, err := lexer.ParseMatchMode(c.Match); err != nil {
		return errors.Wrap(err, "match")
	}
	if _, err := parser.ParsePolicy(c.OnInvalid); err != nil {
		return errors.Wrap(err, "on_invalid")
	}
	if _, err := resolve.ParseStrategy(c.Resolution); err != nil {
		return errors.Wrap(err, "resolution")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	for name := range c.Args {
		if strings.TrimSpace(name) == "" {
			return errors.New("args: empty argument name")
		}
	}
	return nil
}

// Path returns the configuration file to read: the DCRX_CONFIG variable when
// set, otherwise dcrx.yaml in the working directory.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultFilename
}

// Load reads the file named by Path. A missing dcrx.yaml yields the
// defaults; a missing file named by DCRX_CONFIG is an error.
func Load() (*Config, error) {
	path := Path()
	if path == DefaultFilename {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Debugf("no %s in the working directory, using defaults", path)
			return Default(), nil
		}
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse configuration")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// ParserOptions converts the parse settings. filename labels positions.
func (c *Config) ParserOptions(filename string) parser.Options {
	mode, _ := lexer.ParseMatchMode(c.Match)
	policy, _ := parser.ParsePolicy(c.OnInvalid)
	return parser.Options{Mode: mode, OnInvalid: policy, Filename: filename}
}

// ResolveOptions converts the resolution settings. Values in overrides win
// over the configured args.
func (c *Config) ResolveOptions(overrides map[string]string, skip ...string) resolve.Options {
	strategy, _ := resolve.ParseStrategy(c.Resolution)

	defaults := make(map[string]string, len(c.Args)+len(overrides))
	for k, v := range c.Args {
		defaults[k] = v
	}
	for k, v := range overrides {
		defaults[k] = v
	}

	return resolve.Options{
		Defaults: defaults,
		Skip:     append(append([]string{}, c.Skip...), skip...),
		Strategy: strategy,
	}
}

// Level returns the configured log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
