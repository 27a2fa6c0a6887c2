package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("invalid config")

// DefaultConfigPath is used when no --config flag is given.
var DefaultConfigPath = filepath.Join(".config", "astatine.yaml")

type Config struct {
	Emission    EmissionConfig    `yaml:"emission"`
	Expenditure ExpenditureConfig `yaml:"expenditure"`
	Token       TokenConfig       `yaml:"token"`
	Feed        FeedConfig        `yaml:"feed"`
	Window      WindowConfig      `yaml:"window"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Recipients  RecipientsConfig  `yaml:"recipients"`
	Ledger      LedgerConfig      `yaml:"ledger"`
	Submission  SubmissionConfig  `yaml:"submission"`
	Schedule    ScheduleConfig    `yaml:"schedule"`
	Logger      *LogConfig        `yaml:"logger"`
	LogFile     string            `yaml:"logFile"`
}

// DefaultConfig reproduces the deployment the cannon was first run with: a
// flat 800 token daily emission over one year.
func DefaultConfig() *Config {
	flat := 0.0
	cfg := &Config{
		Emission: EmissionConfig{
			DecayConstant: &flat,
		},
	}
	return cfg.WithDefaults()
}

// WithDefaults returns a copy of the Config with any missing fields set to
// their default values.
func (c Config) WithDefaults() *Config {
	cpy := c
	cpy.Emission = cpy.Emission.WithDefaults()
	cpy.Expenditure = cpy.Expenditure.WithDefaults()
	cpy.Token = cpy.Token.WithDefaults()
	cpy.Feed = cpy.Feed.WithDefaults()
	cpy.Window = cpy.Window.WithDefaults()
	cpy.Aggregation = cpy.Aggregation.WithDefaults()
	cpy.Ledger = cpy.Ledger.WithDefaults()
	cpy.Submission = cpy.Submission.WithDefaults()
	cpy.Schedule = cpy.Schedule.WithDefaults()
	return &cpy
}

func (c *Config) Validate() error {
	if err := c.Emission.Validate(); err != nil {
		return errors.Wrap(err, "emission")
	}
	if err := c.Expenditure.Validate(); err != nil {
		return errors.Wrap(err, "expenditure")
	}
	if err := c.Feed.Validate(); err != nil {
		return errors.Wrap(err, "feed")
	}
	if err := c.Window.Validate(); err != nil {
		return errors.Wrap(err, "window")
	}
	if err := c.Recipients.Validate(); err != nil {
		return errors.Wrap(err, "recipients")
	}
	if err := c.Ledger.Validate(); err != nil {
		return errors.Wrap(err, "ledger")
	}
	if err := c.Submission.Validate(); err != nil {
		return errors.Wrap(err, "submission")
	}
	return nil
}

// LoadConfig reads the YAML file at path. A missing file yields
// DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "save config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "save config")
	}

	return errors.Wrap(os.WriteFile(path, data, 0644), "save config")
}
