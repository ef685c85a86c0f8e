package score

// Bands holds every banding threshold the rule engine uses, plus the
// aggregate category cut points. Deployment variants differ only in these
// numbers, never in code.
//
// All intervals are half-open; a boundary value always resolves to the band
// whose lower bound it equals (sleep_duration=6.0 is Average, not Poor).
type Bands struct {
	// Sleep duration in hours: [GoodMin, GoodMax) is best; below PoorLow or
	// at/above PoorHigh is worst; everything between is average.
	SleepGoodMin  float64
	SleepGoodMax  float64
	SleepPoorLow  float64
	SleepPoorHigh float64

	// Daily steps: below Average is worst, [Average, Good) is average,
	// at/above Good is best.
	StepsAverage float64
	StepsGood    float64

	// Physical activity minutes, same shape as steps.
	ActivityAverage float64
	ActivityGood    float64

	// Canonical 0-4 stress: at/above PoorMin is worst, exactly Average is
	// average, everything else is best. Integer reports land on Average
	// directly; fractional canonical values between the integer steps are
	// deliberately not pulled down to it.
	StressPoorMin float64
	StressAverage float64

	// Screen time minutes: at/above Poor is worst, [Average, Poor) is
	// average, below Average is best.
	ScreenAverage float64
	ScreenPoor    float64

	// Aggregate normalized-score cut points: below PoorBelow is Poor,
	// [PoorBelow, GoodFrom) is Average, at/above GoodFrom is Good.
	PoorBelow float64
	GoodFrom  float64
}

// DefaultBands returns the standard banding table.
func DefaultBands() Bands {
	return Bands{
		SleepGoodMin:    7,
		SleepGoodMax:    8,
		SleepPoorLow:    6,
		SleepPoorHigh:   9,
		StepsAverage:    3000,
		StepsGood:       5000,
		ActivityAverage: 10,
		ActivityGood:    21,
		StressPoorMin:   3,
		StressAverage:   2,
		ScreenAverage:   120,
		ScreenPoor:      180,
		PoorBelow:       1.5,
		GoodFrom:        2.4,
	}
}
