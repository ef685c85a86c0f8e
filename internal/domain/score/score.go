// Package score implements the deterministic rule-based half of the hybrid
// engine: stress normalization, per-indicator banding, and the aggregate
// rule verdict. Everything here is a pure function of the resolved
// observation; the statistical classifier is never consulted.
package score

import (
	"fmt"
	"math"

	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/types"
)

// Band values for a single indicator, worst to best.
const (
	BandPoor    = 1
	BandAverage = 2
	BandGood    = 3
)

// indicatorCount is the number of scored indicators; the aggregate
// normalizes against indicatorCount * BandGood.
const indicatorCount = 5

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBands overrides the default banding table.
func WithBands(b Bands) Option {
	return func(s *Scorer) {
		s.bands = b
	}
}

// Indicators holds the per-indicator 1-3 band scores for one observation.
type Indicators struct {
	SleepDuration    int
	DailySteps       int
	PhysicalActivity int
	Stress           int
	ScreenTime       int
}

// Sum returns the total of the five band scores.
func (i Indicators) Sum() int {
	return i.SleepDuration + i.DailySteps + i.PhysicalActivity + i.Stress + i.ScreenTime
}

// Verdict is the deterministic category plus normalized score in [1,3].
type Verdict struct {
	Category types.Category
	Score    float64
}

// Scorer bands raw behavioral fields and aggregates them into a rule
// verdict. It is stateless and safe for concurrent use.
type Scorer struct {
	bands Bands
}

// New creates a Scorer with the default banding table unless overridden.
func New(opts ...Option) *Scorer {
	s := &Scorer{bands: DefaultBands()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bands returns the active banding table.
func (s *Scorer) Bands() Bands {
	return s.bands
}

// Score computes the indicator bands and aggregate rule verdict for one
// resolved observation. StressLevel must already be canonical 0-4 (see
// NormalizeStress). Identical input always yields identical output.
func (s *Scorer) Score(o model.Resolved) (Indicators, Verdict, error) {
	if err := validate(o); err != nil {
		return Indicators{}, Verdict{}, err
	}

	ind := Indicators{
		SleepDuration:    s.bandSleep(o.SleepDuration),
		DailySteps:       s.bandSteps(o.DailySteps),
		PhysicalActivity: s.bandActivity(o.PhysicalActivityMinutes),
		Stress:           s.bandStress(o.StressLevel),
		ScreenTime:       s.bandScreen(o.ScreenTimeMinutes),
	}

	normalized := float64(ind.Sum()) / (indicatorCount * BandGood) * BandGood
	return ind, Verdict{Category: s.categorize(normalized), Score: normalized}, nil
}

func validate(o model.Resolved) error {
	fields := map[string]float64{
		"sleep_duration":            o.SleepDuration,
		"daily_steps":               o.DailySteps,
		"physical_activity_minutes": o.PhysicalActivityMinutes,
		"screen_time_minutes":       o.ScreenTimeMinutes,
		"stress_level":              o.StressLevel,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a number: %w", name, ErrInvalidRange)
		}
		if v < 0 {
			return fmt.Errorf("%s must be non-negative: %w", name, ErrInvalidRange)
		}
	}
	if o.SleepDuration == 0 {
		return fmt.Errorf("sleep_duration must be positive: %w", ErrInvalidRange)
	}
	if o.StressLevel > 4 {
		return fmt.Errorf("stress_level %v exceeds canonical 0-4 scale: %w", o.StressLevel, ErrInvalidRange)
	}
	return nil
}

func (s *Scorer) bandSleep(hours float64) int {
	b := s.bands
	switch {
	case hours < b.SleepPoorLow || hours >= b.SleepPoorHigh:
		return BandPoor
	case hours >= b.SleepGoodMin && hours < b.SleepGoodMax:
		return BandGood
	default:
		return BandAverage
	}
}

func (s *Scorer) bandSteps(steps float64) int {
	switch {
	case steps < s.bands.StepsAverage:
		return BandPoor
	case steps < s.bands.StepsGood:
		return BandAverage
	default:
		return BandGood
	}
}

func (s *Scorer) bandActivity(minutes float64) int {
	switch {
	case minutes < s.bands.ActivityAverage:
		return BandPoor
	case minutes < s.bands.ActivityGood:
		return BandAverage
	default:
		return BandGood
	}
}

func (s *Scorer) bandStress(canonical float64) int {
	// Only the exact Average step bands Average; fractional canonical values
	// between the integer steps count as Good, like anything below it.
	switch {
	case canonical >= s.bands.StressPoorMin:
		return BandPoor
	case canonical == s.bands.StressAverage:
		return BandAverage
	default:
		return BandGood
	}
}

func (s *Scorer) bandScreen(minutes float64) int {
	switch {
	case minutes >= s.bands.ScreenPoor:
		return BandPoor
	case minutes >= s.bands.ScreenAverage:
		return BandAverage
	default:
		return BandGood
	}
}

func (s *Scorer) categorize(normalized float64) types.Category {
	switch {
	case normalized < s.bands.PoorBelow:
		return types.Poor
	case normalized < s.bands.GoodFrom:
		return types.Average
	default:
		return types.Good
	}
}
