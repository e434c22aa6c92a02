// Package config loads the orchestrator configuration from consilium.yml.
// Environment variables in ${VAR} form are expanded and duration fields
// are written as Go duration strings ("30s", "1m30s").
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/consilium/internal/specialist"
)

// Synthesis modes.
const (
	ModeLabel = "label"
	ModeModel = "model"
)

// Defaults applied to fields left empty in the file.
const (
	DefaultListen            = ":8003"
	DefaultMaxQuestionLen    = 4096
	DefaultHealthTimeout     = 5 * time.Second
	DefaultSpecialistTimeout = 30 * time.Second
)

// Config holds the complete orchestrator configuration.
type Config struct {
	Listen         string             `yaml:"listen"`
	MaxQuestionLen int                `yaml:"max_question_len"`
	Specialists    []SpecialistConfig `yaml:"specialists"`
	Synthesis      SynthesisConfig    `yaml:"synthesis"`

	HealthTimeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling.
	HealthTimeoutRaw string `yaml:"health_timeout"`
}

// SpecialistConfig describes one specialist agent endpoint.
type SpecialistConfig struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Priority int    `yaml:"priority"`

	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling.
	TimeoutRaw string `yaml:"timeout"`
}

// SynthesisConfig selects how answered opinions are combined.
type SynthesisConfig struct {
	Mode    string `yaml:"mode"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// Load reads the configuration file at path. When path is empty,
// consilium.yml then consilium.yaml are probed in the current directory.
// Environment variables in ${VAR} form are expanded before parsing.
func Load(path string) (*Config, error) {
	if path == "" {
		located, err := locate(".")
		if err != nil {
			return nil, err
		}
		path = located
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// locate probes dir for the two accepted config file names.
func locate(dir string) (string, error) {
	for _, name := range []string{"consilium.yml", "consilium.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no consilium.yml or consilium.yaml found in %s", dir)
}

// expandEnvVars replaces ${VAR} patterns with the corresponding
// environment variable values. Unset variables expand to empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.MaxQuestionLen == 0 {
		c.MaxQuestionLen = DefaultMaxQuestionLen
	}
	if c.Synthesis.Mode == "" {
		c.Synthesis.Mode = ModeLabel
	}
}

func (c *Config) parseDurations() error {
	c.HealthTimeout = DefaultHealthTimeout
	if c.HealthTimeoutRaw != "" {
		d, err := time.ParseDuration(c.HealthTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing health_timeout %q: %w", c.HealthTimeoutRaw, err)
		}
		c.HealthTimeout = d
	}

	for i := range c.Specialists {
		sp := &c.Specialists[i]
		sp.Timeout = DefaultSpecialistTimeout
		if sp.TimeoutRaw == "" {
			continue
		}
		d, err := time.ParseDuration(sp.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing specialists[%d].timeout %q: %w", i, sp.TimeoutRaw, err)
		}
		sp.Timeout = d
	}
	return nil
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first failure encountered.
func (c *Config) Validate() error {
	if c.MaxQuestionLen < 0 {
		return fmt.Errorf("max_question_len must not be negative")
	}
	if len(c.Specialists) == 0 {
		return fmt.Errorf("at least one specialist is required")
	}

	seen := make(map[string]bool, len(c.Specialists))
	for i, sp := range c.Specialists {
		if sp.Name == "" {
			return fmt.Errorf("specialists[%d].name is required", i)
		}
		if sp.Endpoint == "" {
			return fmt.Errorf("specialists[%d].endpoint is required", i)
		}
		if u, err := url.Parse(sp.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("specialists[%d].endpoint %q is not a valid URL", i, sp.Endpoint)
		}
		if sp.Timeout <= 0 {
			return fmt.Errorf("specialists[%d].timeout must be positive", i)
		}
		if seen[sp.Name] {
			return fmt.Errorf("duplicate specialist name %q", sp.Name)
		}
		seen[sp.Name] = true
	}

	switch c.Synthesis.Mode {
	case ModeLabel:
	case ModeModel:
		if c.Synthesis.Model == "" {
			return fmt.Errorf("synthesis.model is required when mode is %q", ModeModel)
		}
		if c.Synthesis.BaseURL == "" {
			return fmt.Errorf("synthesis.base_url is required when mode is %q", ModeModel)
		}
	default:
		return fmt.Errorf("synthesis.mode must be %q or %q, got %q", ModeLabel, ModeModel, c.Synthesis.Mode)
	}

	return nil
}

// Roster converts the configured specialists into dispatch identities in
// file order.
func (c *Config) Roster() []specialist.Identity {
	roster := make([]specialist.Identity, len(c.Specialists))
	for i, sp := range c.Specialists {
		roster[i] = specialist.Identity{
			Name:     sp.Name,
			Endpoint: sp.Endpoint,
			Timeout:  sp.Timeout,
			Priority: sp.Priority,
		}
	}
	return roster
}
