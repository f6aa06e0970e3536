package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/shoreline/internal/logging"
	"github.com/sydlexius/shoreline/internal/rules"
)

// Config holds all application configuration, including the naming rule
// set. Rule validation happens here, at load time: the engine itself never
// re-validates and treats configuration defects as impossible.
type Config struct {
	Logging logging.Config `yaml:"logging"`
	Naming  rules.RuleSet  `yaml:"naming"`
	Path    PathConfig     `yaml:"path"`
}

// PathConfig holds path-budget settings.
type PathConfig struct {
	// MaxLength is the combined folder+filename budget.
	MaxLength int `yaml:"max_length"`
	// AncillaryExtensions are the extra per-release files whose names are
	// re-checked against the budget (cover art, cue sheets, ...).
	AncillaryExtensions []string `yaml:"ancillary_extensions"`
	// Tag is the default ripper tag appended to folder names.
	Tag string `yaml:"tag"`
}

// Default returns a Config with the built-in rule set.
func Default() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Naming:  rules.Defaults(),
		Path: PathConfig{
			MaxLength:           225,
			AncillaryExtensions: []string{".jpg"},
		},
	}
}

// Load reads config from a YAML file (if it exists), overrides with
// environment variables, validates, and compiles the naming rule set. The
// returned Table is the immutable compiled form every engine call receives;
// a nil error means every pattern in it is valid.
func Load(path string) (*Config, *rules.Table, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("validating config: %w", err)
	}

	table, err := rules.Compile(cfg.Naming)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling naming rules: %w", err)
	}

	return cfg, table, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("SL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SL_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SL_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("SL_MAX_PATH_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Path.MaxLength = n
		}
	}
	if v := os.Getenv("SL_TAG"); v != "" {
		c.Path.Tag = v
	}
	if v := os.Getenv("SL_ANCILLARY_EXTENSIONS"); v != "" {
		c.Path.AncillaryExtensions = splitList(v)
	}
}

func (c *Config) validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Path.MaxLength < 1 {
		return fmt.Errorf("path max_length must be positive, got %d", c.Path.MaxLength)
	}
	for i, ext := range c.Path.AncillaryExtensions {
		if !strings.HasPrefix(ext, ".") {
			c.Path.AncillaryExtensions[i] = "." + ext
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
