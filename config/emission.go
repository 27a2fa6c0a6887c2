package config

import (
	"math"

	"github.com/pkg/errors"
)

const (
	defaultEmissionPeriod = int64(31536000) // one year
	defaultTickInterval   = int64(86400)    // one day
	defaultInitialRate    = float64(800)
	defaultBucketTicks    = int64(1)
	defaultFixedAmount    = int64(800)

	ExpenditureFixed = "fixed"
	ExpenditureCurve = "curve"
)

type EmissionConfig struct {
	// Length of the emission in seconds.
	Period int64 `yaml:"period"`
	// Seconds per tick.
	TickInterval int64   `yaml:"tickInterval"`
	InitialRate  float64 `yaml:"initialRate"`
	// Selects the curve: omitted or .nan is linear, 0 is flat, positive values
	// are exponential.
	DecayConstant *float64 `yaml:"decayConstant"`
	// Coarsens elapsed ticks to multiples of this many ticks.
	BucketTicks int64 `yaml:"bucketTicks"`
}

// WithDefaults returns a copy of the EmissionConfig with any missing fields
// set to their default values. DecayConstant is left alone, an absent value
// is meaningful.
func (c EmissionConfig) WithDefaults() EmissionConfig {
	cpy := c
	if cpy.Period == 0 {
		cpy.Period = defaultEmissionPeriod
	}
	if cpy.TickInterval == 0 {
		cpy.TickInterval = defaultTickInterval
	}
	if cpy.InitialRate == 0 {
		cpy.InitialRate = defaultInitialRate
	}
	if cpy.BucketTicks == 0 {
		cpy.BucketTicks = defaultBucketTicks
	}
	return cpy
}

func (c EmissionConfig) Validate() error {
	switch {
	case c.Period <= 0:
		return errors.Wrap(ErrInvalidConfig, "period must be positive")
	case c.TickInterval <= 0:
		return errors.Wrap(ErrInvalidConfig, "tickInterval must be positive")
	case c.InitialRate <= 0:
		return errors.Wrap(ErrInvalidConfig, "initialRate must be positive")
	case c.BucketTicks < 1:
		return errors.Wrap(ErrInvalidConfig, "bucketTicks must be at least 1")
	case c.DecayConstant != nil && !math.IsNaN(*c.DecayConstant) &&
		*c.DecayConstant < 0:
		return errors.Wrap(ErrInvalidConfig, "decayConstant must not be negative")
	}
	return nil
}

type ExpenditureConfig struct {
	// "fixed" spends FixedAmount every run, "curve" spends the scheduled rate
	// of the elapsed tick. A fixed amount of 0 pauses spending.
	Mode        string `yaml:"mode"`
	FixedAmount *int64 `yaml:"fixedAmount"`
}

// WithDefaults returns a copy of the ExpenditureConfig with any missing
// fields set to their default values.
func (c ExpenditureConfig) WithDefaults() ExpenditureConfig {
	cpy := c
	if cpy.Mode == "" {
		cpy.Mode = ExpenditureFixed
	}
	if cpy.FixedAmount == nil {
		amount := defaultFixedAmount
		cpy.FixedAmount = &amount
	}
	return cpy
}

func (c ExpenditureConfig) Validate() error {
	switch c.Mode {
	case ExpenditureFixed:
		if c.FixedAmount != nil && *c.FixedAmount < 0 {
			return errors.Wrap(ErrInvalidConfig, "fixedAmount must not be negative")
		}
	case ExpenditureCurve:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %q", c.Mode)
	}
	return nil
}

// Token identifies the contract and the tags attached to every transfer.
type TokenConfig struct {
	ContractID string `yaml:"contractId"`
	CannonName string `yaml:"cannonName"`
	AppName    string `yaml:"appName"`
	AppVersion string `yaml:"appVersion"`
}

// WithDefaults returns a copy of the TokenConfig with any missing fields set
// to their default values.
func (c TokenConfig) WithDefaults() TokenConfig {
	cpy := c
	if cpy.ContractID == "" {
		// ArDrive profit sharing community contract
		cpy.ContractID = "-8A6RexFkpfWwuyVO98wzSFZh0d6VJuI-buTJvlwOJQ"
	}
	if cpy.CannonName == "" {
		cpy.CannonName = "ArDrive Usage Rewards"
	}
	if cpy.AppName == "" {
		cpy.AppName = "SmartWeaveAction"
	}
	if cpy.AppVersion == "" {
		cpy.AppVersion = "0.3.0"
	}
	return cpy
}
