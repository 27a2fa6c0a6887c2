package config

import (
	"time"

	"github.com/pkg/errors"
)

const (
	defaultPrimaryGraphQLURL   = "https://arweave.net/graphql"
	defaultSecondaryGraphQLURL = "https://arweave.dev/graphql"
	defaultPageSize            = 100 // max page size of the gateway
	defaultFeedTimeout         = 60 * time.Second
	defaultWindowLength        = 24 * time.Hour
	defaultAnchorHour          = 16
	defaultMinContribution     = uint64(50 * 1024 * 1024)

	PendingTerminate = "terminate"
	PendingSkip      = "skip"
)

var defaultAppNames = []string{"ArDrive-Desktop", "ArDrive-Web"}

type FeedConfig struct {
	PrimaryURL   string `yaml:"primaryURL"`
	SecondaryURL string `yaml:"secondaryURL"`
	// Values of the App-Name tag that mark uploads.
	AppNames []string      `yaml:"appNames"`
	MinBlock int64         `yaml:"minBlock"`
	PageSize int           `yaml:"pageSize"`
	Timeout  time.Duration `yaml:"timeout"`
	// Maximum page requests per second, 0 disables pacing.
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	// Upper bound on pages fetched per aggregation, 0 is unbounded.
	MaxPages int `yaml:"maxPages"`
	// Scan the feed to exhaustion instead of stopping at the first record
	// older than the window. Needed when the feed is not ordered by recency.
	FullScan bool `yaml:"fullScan"`
	// What to do with records that are not in a block yet: "terminate" stops
	// the aggregation, "skip" ignores them.
	PendingRecords string `yaml:"pendingRecords"`
}

// WithDefaults returns a copy of the FeedConfig with any missing fields set to
// their default values.
func (c FeedConfig) WithDefaults() FeedConfig {
	cpy := c
	if cpy.PrimaryURL == "" {
		cpy.PrimaryURL = defaultPrimaryGraphQLURL
	}
	if cpy.SecondaryURL == "" {
		cpy.SecondaryURL = defaultSecondaryGraphQLURL
	}
	if len(cpy.AppNames) == 0 {
		cpy.AppNames = append([]string{}, defaultAppNames...)
	}
	if cpy.PageSize == 0 {
		cpy.PageSize = defaultPageSize
	}
	if cpy.Timeout == 0 {
		cpy.Timeout = defaultFeedTimeout
	}
	if cpy.PendingRecords == "" {
		cpy.PendingRecords = PendingTerminate
	}
	return cpy
}

func (c FeedConfig) Validate() error {
	switch {
	case c.PageSize < 1:
		return errors.Wrap(ErrInvalidConfig, "pageSize must be positive")
	case c.RequestsPerSecond < 0:
		return errors.Wrap(ErrInvalidConfig, "requestsPerSecond must not be negative")
	case c.MaxPages < 0:
		return errors.Wrap(ErrInvalidConfig, "maxPages must not be negative")
	}
	switch c.PendingRecords {
	case PendingTerminate, PendingSkip:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown pendingRecords %q", c.PendingRecords)
	}
	return nil
}

// Endpoints returns the configured GraphQL endpoints in the order they are
// tried.
func (c FeedConfig) Endpoints() []string {
	endpoints := []string{c.PrimaryURL}
	if c.SecondaryURL != "" && c.SecondaryURL != c.PrimaryURL {
		endpoints = append(endpoints, c.SecondaryURL)
	}
	return endpoints
}

// The aggregation window ends at AnchorHour (UTC) of the current day and
// spans Length.
type WindowConfig struct {
	Length     time.Duration `yaml:"length"`
	AnchorHour *int          `yaml:"anchorHour"`
}

// WithDefaults returns a copy of the WindowConfig with any missing fields set
// to their default values.
func (c WindowConfig) WithDefaults() WindowConfig {
	cpy := c
	if cpy.Length == 0 {
		cpy.Length = defaultWindowLength
	}
	if cpy.AnchorHour == nil {
		hour := defaultAnchorHour
		cpy.AnchorHour = &hour
	}
	return cpy
}

func (c WindowConfig) Validate() error {
	if c.Length <= 0 {
		return errors.Wrap(ErrInvalidConfig, "length must be positive")
	}
	if c.AnchorHour != nil && (*c.AnchorHour < 0 || *c.AnchorHour > 23) {
		return errors.Wrap(ErrInvalidConfig, "anchorHour must be within 0-23")
	}
	return nil
}

type AggregationConfig struct {
	// Recipients that uploaded fewer bytes are dropped from the run.
	MinContribution *uint64 `yaml:"minContribution"`
}

// WithDefaults returns a copy of the AggregationConfig with any missing fields
// set to their default values.
func (c AggregationConfig) WithDefaults() AggregationConfig {
	cpy := c
	if cpy.MinContribution == nil {
		minimum := defaultMinContribution
		cpy.MinContribution = &minimum
	}
	return cpy
}

// Static recipients replace the aggregator for deployments that pay a fixed
// list in equal shares.
type RecipientsConfig struct {
	Static []string `yaml:"static"`
}

// Validate rejects empty and repeated addresses. Transfers are keyed by their
// content, so a repeated address would collapse into one transfer.
func (c RecipientsConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Static))
	for _, address := range c.Static {
		if address == "" {
			return errors.Wrap(ErrInvalidConfig, "empty static recipient")
		}
		if _, ok := seen[address]; ok {
			return errors.Wrapf(
				ErrInvalidConfig,
				"static recipient %q listed twice",
				address,
			)
		}
		seen[address] = struct{}{}
	}
	return nil
}
