package reward

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidProfile = errors.New("invalid emission profile")

// CurveKind names the shape of the emission schedule. The value doubles as
// the "Function" tag of every transfer.
type CurveKind string

const (
	CurveFlat        CurveKind = "flat"
	CurveLinear      CurveKind = "linear"
	CurveExponential CurveKind = "exponential"
)

// CurveKindFor derives the curve from the decay constant: undefined (nil or
// NaN) is linear, zero is flat and any positive value is exponential.
func CurveKindFor(decay *float64) (CurveKind, error) {
	switch {
	case decay == nil || math.IsNaN(*decay):
		return CurveLinear, nil
	case *decay == 0:
		return CurveFlat, nil
	case *decay > 0 && !math.IsInf(*decay, 1):
		return CurveExponential, nil
	default:
		return "", errors.Wrapf(ErrInvalidProfile, "decay constant %v", *decay)
	}
}

// Profile is an emission schedule: a budget issued once per tick over a fixed
// period, following one of the curves.
type Profile struct {
	// Length of the emission in seconds.
	Period int64
	// Seconds per tick.
	TickInterval int64
	InitialRate  float64
	// Only meaningful for exponential curves.
	DecayConstant float64
	Kind          CurveKind
	// Derived sum of Rate over every tick of the period.
	TotalBudget int64
}

func NewProfile(
	period int64,
	tickInterval int64,
	initialRate float64,
	decay *float64,
) (*Profile, error) {
	switch {
	case period <= 0:
		return nil, errors.Wrap(ErrInvalidProfile, "period must be positive")
	case tickInterval <= 0:
		return nil, errors.Wrap(ErrInvalidProfile, "tick interval must be positive")
	case initialRate <= 0 || math.IsNaN(initialRate) || math.IsInf(initialRate, 0):
		return nil, errors.Wrap(ErrInvalidProfile, "initial rate must be positive")
	}

	kind, err := CurveKindFor(decay)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Period:       period,
		TickInterval: tickInterval,
		InitialRate:  initialRate,
		Kind:         kind,
	}
	if kind == CurveExponential {
		p.DecayConstant = *decay
	}
	p.TotalBudget = p.ScheduleTotal()

	return p, nil
}

// Ticks returns the index of the last tick of the period.
func (p *Profile) Ticks() int64 {
	return p.Period / p.TickInterval
}

// Rate returns the number of whole token units scheduled for tick n.
func (p *Profile) Rate(n int64) int64 {
	var rate float64
	switch p.Kind {
	case CurveFlat:
		rate = p.InitialRate
	case CurveLinear:
		rate = p.InitialRate - (float64(n)*float64(p.TickInterval)*p.InitialRate)/
			float64(p.Period)
	case CurveExponential:
		rate = p.InitialRate * math.Exp(
			-p.DecayConstant*float64(n)*float64(p.TickInterval),
		)
	}

	return int64(math.Floor(rate))
}

// ScheduleTotal sums Rate over ticks 0 through Ticks() inclusive.
func (p *Profile) ScheduleTotal() int64 {
	var total int64
	for n := int64(0); n <= p.Ticks(); n++ {
		total += p.Rate(n)
	}
	return total
}

// TickRate is one row of the expanded schedule.
type TickRate struct {
	Tick       int64
	Rate       int64
	Cumulative int64
}

// Schedule expands the full emission schedule tick by tick.
func (p *Profile) Schedule() []TickRate {
	out := make([]TickRate, 0, p.Ticks()+1)
	var cumulative int64
	for n := int64(0); n <= p.Ticks(); n++ {
		rate := p.Rate(n)
		cumulative += rate
		out = append(out, TickRate{Tick: n, Rate: rate, Cumulative: cumulative})
	}
	return out
}

// ElapsedTicks converts the time since initialisation into whole ticks,
// floored to a multiple of bucket when bucket is greater than one.
func (p *Profile) ElapsedTicks(initMillis, nowMillis, bucket int64) int64 {
	ticks := floorDiv(floorDiv(nowMillis-initMillis, 1000), p.TickInterval)
	if bucket > 1 {
		ticks = floorDiv(ticks, bucket) * bucket
	}
	return ticks
}

// Completion returns how far into the period elapsedSeconds is, in percent.
func (p *Profile) Completion(elapsedSeconds int64) decimal.Decimal {
	return decimal.NewFromInt(elapsedSeconds).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(p.Period))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
