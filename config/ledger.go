package config

import (
	"path/filepath"
	"time"

	"github.com/ardriveapp/astatine/utils/runtime"
	"github.com/pkg/errors"
)

const (
	LedgerBackendFile   = "file"
	LedgerBackendPebble = "pebble"

	defaultLedgerFile    = "status.json"
	defaultPebblePath    = ".config/ledger"
	defaultCronSpec      = "0 16 * * *"
	defaultSubmitTimeout = 30 * time.Second
	defaultKeyEnv        = "KEYFILE"

	defaultNoticePercentage    = 70
	defaultWarnPercentage      = 90
	defaultTerminatePercentage = 95

	SubmissionDryRun = "dry-run"
	SubmissionHTTP   = "http"

	OnFailureAbort         = "abort"
	OnFailureRecordPartial = "record-partial"
)

type LedgerConfig struct {
	// "file" keeps the ledger in a JSON file, "pebble" in a pebble store.
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// Disk usage of the ledger partition, in percent, at which the serve
	// command logs a notice, a warning, or stops.
	NoticePercentage    int `yaml:"noticePercentage"`
	WarnPercentage      int `yaml:"warnPercentage"`
	TerminatePercentage int `yaml:"terminatePercentage"`
}

// WithDefaults returns a copy of the LedgerConfig with any missing fields set
// to their default values.
func (c LedgerConfig) WithDefaults() LedgerConfig {
	cpy := c
	if cpy.Backend == "" {
		cpy.Backend = LedgerBackendFile
	}
	if cpy.Path == "" {
		switch cpy.Backend {
		case LedgerBackendPebble:
			cpy.Path = filepath.FromSlash(defaultPebblePath)
		default:
			cpy.Path = defaultLedgerFile
		}
	}
	if cpy.NoticePercentage == 0 {
		cpy.NoticePercentage = defaultNoticePercentage
	}
	if cpy.WarnPercentage == 0 {
		cpy.WarnPercentage = defaultWarnPercentage
	}
	if cpy.TerminatePercentage == 0 {
		cpy.TerminatePercentage = defaultTerminatePercentage
	}
	return cpy
}

// Dir returns the directory holding the ledger.
func (c LedgerConfig) Dir() string {
	if c.Backend == LedgerBackendPebble {
		return c.Path
	}
	return filepath.Dir(c.Path)
}

func (c LedgerConfig) Validate() error {
	switch c.Backend {
	case LedgerBackendFile, LedgerBackendPebble:
		return nil
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown backend %q", c.Backend)
	}
}

type SubmissionConfig struct {
	// "dry-run" only logs transfers, "http" posts them to Endpoint.
	Mode     string `yaml:"mode"`
	Endpoint string `yaml:"endpoint"`
	// Name of the environment variable holding the hex encoded signing key.
	KeyEnv string `yaml:"keyEnv"`
	// "abort" leaves the ledger untouched when a transfer fails,
	// "record-partial" records the run with the unsent payouts marked.
	OnFailure string        `yaml:"onFailure"`
	Timeout   time.Duration `yaml:"timeout"`
	// Concurrency limit for signing transfer instructions, defaults to one
	// less than the available cores.
	SignLimit int `yaml:"signLimit"`
}

// WithDefaults returns a copy of the SubmissionConfig with any missing fields
// set to their default values.
func (c SubmissionConfig) WithDefaults() SubmissionConfig {
	cpy := c
	if cpy.Mode == "" {
		cpy.Mode = SubmissionDryRun
	}
	if cpy.KeyEnv == "" {
		cpy.KeyEnv = defaultKeyEnv
	}
	if cpy.OnFailure == "" {
		cpy.OnFailure = OnFailureAbort
	}
	if cpy.Timeout == 0 {
		cpy.Timeout = defaultSubmitTimeout
	}
	if cpy.SignLimit == 0 {
		cpy.SignLimit = runtime.WorkerCount(0)
	}
	return cpy
}

func (c SubmissionConfig) Validate() error {
	switch c.Mode {
	case SubmissionDryRun:
	case SubmissionHTTP:
		if c.Endpoint == "" {
			return errors.Wrap(ErrInvalidConfig, "endpoint required for http mode")
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %q", c.Mode)
	}
	switch c.OnFailure {
	case OnFailureAbort, OnFailureRecordPartial:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown onFailure %q", c.OnFailure)
	}
	if c.SignLimit < 1 {
		return errors.Wrap(ErrInvalidConfig, "signLimit must be at least 1")
	}
	return nil
}

type ScheduleConfig struct {
	// Cron expression (UTC) used by the serve command.
	Cron string `yaml:"cron"`
	// Address for the prometheus endpoint of the serve command, empty
	// disables it.
	MetricsListen string `yaml:"metricsListen"`
}

// WithDefaults returns a copy of the ScheduleConfig with any missing fields
// set to their default values.
func (c ScheduleConfig) WithDefaults() ScheduleConfig {
	cpy := c
	if cpy.Cron == "" {
		cpy.Cron = defaultCronSpec
	}
	return cpy
}
