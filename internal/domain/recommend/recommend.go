// Package recommend maps indicator bands to advisory copy. The copy is
// data, not logic: deployments may swap or localize the table without
// changing engine behavior, and emission never feeds back into arbitration.
package recommend

import (
	"github.com/somnolab/sleepq/internal/domain/score"
)

// Indicator names the five advised dimensions in emission order.
type Indicator string

// Advised indicators, in the order advice is emitted.
const (
	SleepDuration    Indicator = "sleep_duration"
	DailySteps       Indicator = "daily_steps"
	PhysicalActivity Indicator = "physical_activity"
	Stress           Indicator = "stress"
	ScreenTime       Indicator = "screen_time"
)

// order fixes the emission sequence so batch output stays comparable.
var order = []Indicator{SleepDuration, DailySteps, PhysicalActivity, Stress, ScreenTime}

// Table maps each indicator band to one advisory line, indexed band-1.
type Table map[Indicator][3]string

// DefaultTable returns the built-in advisory copy.
func DefaultTable() Table {
	return Table{
		SleepDuration: {
			"Sleep duration is outside the healthy range: target 7-8 hours with a fixed wake-up time.",
			"Sleep duration is close to target: shift bedtime to land between 7 and 8 hours.",
			"Sleep duration is on target: keep your current bedtime consistent.",
		},
		DailySteps: {
			"Low daily steps: try a short walk or light exercise during the day.",
			"Moderate daily steps: add one extra walk to pass 5000 steps.",
			"Daily steps look good: maintain your current activity level.",
		},
		PhysicalActivity: {
			"Very little physical activity: aim for at least 10 active minutes daily.",
			"Some physical activity: build up toward 21+ minutes per day.",
			"Physical activity is solid: keep your routine going.",
		},
		Stress: {
			"High stress detected: try relaxation techniques (10 min mindfulness), avoid screens 1 hr before bed.",
			"Moderate stress: schedule short breaks and wind down before bedtime.",
			"Stress is well managed: keep your current coping habits.",
		},
		ScreenTime: {
			"High screen time: reduce screen exposure 60 minutes before bedtime.",
			"Notable screen time: set an evening cutoff for devices.",
			"Screen time is under control: keep evening device use low.",
		},
	}
}

// DefaultMaintenance is emitted in legacy mode when nothing needs fixing.
const DefaultMaintenance = "Maintain your current routines: keep consistent bedtime and healthy lifestyle habits."

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTable replaces the advisory copy table.
func WithTable(t Table) Option {
	return func(g *Generator) {
		if len(t) > 0 {
			g.table = t
		}
	}
}

// WithLegacyMode switches to failure-only emission: advice is emitted only
// for non-Good bands, with a single maintenance message when every band is
// Good.
func WithLegacyMode(enabled bool) Option {
	return func(g *Generator) {
		g.legacy = enabled
	}
}

// WithMaintenanceMessage replaces the legacy-mode all-good message.
func WithMaintenanceMessage(msg string) Option {
	return func(g *Generator) {
		if msg != "" {
			g.maintenance = msg
		}
	}
}

// Generator emits advisory strings from indicator bands.
type Generator struct {
	table       Table
	legacy      bool
	maintenance string
}

// New creates a Generator with the built-in copy unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		table:       DefaultTable(),
		maintenance: DefaultMaintenance,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// For returns the advisory lines for the given indicator bands, in fixed
// indicator order. The result is never empty.
func (g *Generator) For(ind score.Indicators) []string {
	bands := map[Indicator]int{
		SleepDuration:    ind.SleepDuration,
		DailySteps:       ind.DailySteps,
		PhysicalActivity: ind.PhysicalActivity,
		Stress:           ind.Stress,
		ScreenTime:       ind.ScreenTime,
	}

	out := make([]string, 0, len(order))
	for _, name := range order {
		band := clampBand(bands[name])
		if g.legacy && band == score.BandGood {
			continue
		}
		out = append(out, g.table[name][band-1])
	}
	if len(out) == 0 {
		out = append(out, g.maintenance)
	}
	return out
}

func clampBand(b int) int {
	if b < score.BandPoor {
		return score.BandPoor
	}
	if b > score.BandGood {
		return score.BandGood
	}
	return b
}
