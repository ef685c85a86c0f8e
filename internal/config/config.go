// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults; Load layers file/env on top.
//   - The stress scale has no default: deployments must declare which raw
//     scale their observations use; guessing from magnitude is disallowed.
//   - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"

	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/score"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath locates the trained classifier artifact loaded at startup.
	ModelPath string `koanf:"model_path"`

	// StressScale declares the raw stress scale of inbound observations:
	// "0-10" or "0-4". Required; there is no default.
	StressScale string `koanf:"stress_scale"`

	// ConfidenceThreshold is the arbitration cutoff in percent below which
	// the rule result overrides the classifier.
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`

	// BatchWorkers bounds concurrent batch row evaluation.
	BatchWorkers int `koanf:"batch_workers"`

	// LegacyRecommendations switches to failure-only advice emission.
	LegacyRecommendations bool `koanf:"legacy_recommendations"`

	// Bands carries the rule engine banding thresholds.
	Bands BandsConfig `koanf:"bands"`

	// Defaults fills absent optional observation fields.
	Defaults DefaultsConfig `koanf:"defaults"`
}

// BandsConfig mirrors score.Bands with koanf tags.
type BandsConfig struct {
	SleepGoodMin    float64 `koanf:"sleep_good_min"`
	SleepGoodMax    float64 `koanf:"sleep_good_max"`
	SleepPoorLow    float64 `koanf:"sleep_poor_low"`
	SleepPoorHigh   float64 `koanf:"sleep_poor_high"`
	StepsAverage    float64 `koanf:"steps_average"`
	StepsGood       float64 `koanf:"steps_good"`
	ActivityAverage float64 `koanf:"activity_average"`
	ActivityGood    float64 `koanf:"activity_good"`
	StressPoorMin   float64 `koanf:"stress_poor_min"`
	StressAverage   float64 `koanf:"stress_average"`
	ScreenAverage   float64 `koanf:"screen_average"`
	ScreenPoor      float64 `koanf:"screen_poor"`
	PoorBelow       float64 `koanf:"poor_below"`
	GoodFrom        float64 `koanf:"good_from"`
}

// ToBands converts the configuration shape to the domain banding table.
func (b BandsConfig) ToBands() score.Bands {
	return score.Bands{
		SleepGoodMin:    b.SleepGoodMin,
		SleepGoodMax:    b.SleepGoodMax,
		SleepPoorLow:    b.SleepPoorLow,
		SleepPoorHigh:   b.SleepPoorHigh,
		StepsAverage:    b.StepsAverage,
		StepsGood:       b.StepsGood,
		ActivityAverage: b.ActivityAverage,
		ActivityGood:    b.ActivityGood,
		StressPoorMin:   b.StressPoorMin,
		StressAverage:   b.StressAverage,
		ScreenAverage:   b.ScreenAverage,
		ScreenPoor:      b.ScreenPoor,
		PoorBelow:       b.PoorBelow,
		GoodFrom:        b.GoodFrom,
	}
}

// DefaultsConfig mirrors model.Defaults with koanf tags. The values are an
// explicit policy, never hidden behavior in scoring code.
type DefaultsConfig struct {
	DailySteps              float64 `koanf:"daily_steps"`
	PhysicalActivityMinutes float64 `koanf:"physical_activity_minutes"`
	ScreenTimeMinutes       float64 `koanf:"screen_time_minutes"`
	StressLevel             float64 `koanf:"stress_level"`
	BMICategory             string  `koanf:"bmi_category"`
}

// ToDefaults converts the configuration shape to the domain policy.
func (d DefaultsConfig) ToDefaults() model.Defaults {
	return model.Defaults{
		DailySteps:              d.DailySteps,
		PhysicalActivityMinutes: d.PhysicalActivityMinutes,
		ScreenTimeMinutes:       d.ScreenTimeMinutes,
		StressLevel:             d.StressLevel,
		BMICategory:             d.BMICategory,
	}
}

// New creates a Config with defaults. StressScale is deliberately left
// empty: Load rejects a configuration that does not declare it.
func New() *Config {
	defaults := model.DefaultPolicy()
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		ModelPath:           "models/sleep_quality_tree.json",
		ConfidenceThreshold: 70,
		BatchWorkers:        runtime.NumCPU(),
		Bands:               DefaultBandsConfig(),
		Defaults: DefaultsConfig{
			DailySteps:              defaults.DailySteps,
			PhysicalActivityMinutes: defaults.PhysicalActivityMinutes,
			ScreenTimeMinutes:       defaults.ScreenTimeMinutes,
			StressLevel:             defaults.StressLevel,
			BMICategory:             defaults.BMICategory,
		},
	}
}

// DefaultBandsConfig returns the standard banding table in config shape.
func DefaultBandsConfig() BandsConfig {
	b := score.DefaultBands()
	return BandsConfig{
		SleepGoodMin:    b.SleepGoodMin,
		SleepGoodMax:    b.SleepGoodMax,
		SleepPoorLow:    b.SleepPoorLow,
		SleepPoorHigh:   b.SleepPoorHigh,
		StepsAverage:    b.StepsAverage,
		StepsGood:       b.StepsGood,
		ActivityAverage: b.ActivityAverage,
		ActivityGood:    b.ActivityGood,
		StressPoorMin:   b.StressPoorMin,
		StressAverage:   b.StressAverage,
		ScreenAverage:   b.ScreenAverage,
		ScreenPoor:      b.ScreenPoor,
		PoorBelow:       b.PoorBelow,
		GoodFrom:        b.GoodFrom,
	}
}
