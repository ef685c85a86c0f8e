// Package model contains domain models passed between layers.
package model

// Observation is one input record of behavioral fields for a single
// evaluation. Optional fields are pointers so that "absent" stays
// distinguishable from zero; Resolve fills them from a Defaults policy
// before any scoring happens.
type Observation struct {
	Age                     int      // years
	Gender                  string   // categorical, classifier-only
	SleepDuration           float64  // hours
	DailySteps              *float64 // optional
	PhysicalActivityMinutes *float64 // optional
	ScreenTimeMinutes       *float64 // optional
	StressLevel             *float64 // optional, raw scale declared in config
	BMICategory             string   // Underweight/Normal/Overweight/Obese
}

// Defaults supplies values for absent optional fields. The policy is
// explicit configuration, never an implicit zero hidden in scoring code.
type Defaults struct {
	DailySteps              float64
	PhysicalActivityMinutes float64
	ScreenTimeMinutes       float64
	StressLevel             float64
	BMICategory             string
}

// DefaultPolicy returns the documented defaults applied when the
// deployment does not configure its own.
func DefaultPolicy() Defaults {
	return Defaults{BMICategory: "Normal"}
}

// Resolved is an Observation with every optional field filled in. All
// downstream components consume this shape.
type Resolved struct {
	Age                     int
	Gender                  string
	SleepDuration           float64
	DailySteps              float64
	PhysicalActivityMinutes float64
	ScreenTimeMinutes       float64
	StressLevel             float64
	BMICategory             string
}

// Resolve fills absent optional fields of o from d without mutating o.
func Resolve(o Observation, d Defaults) Resolved {
	r := Resolved{
		Age:                     o.Age,
		Gender:                  o.Gender,
		SleepDuration:           o.SleepDuration,
		DailySteps:              d.DailySteps,
		PhysicalActivityMinutes: d.PhysicalActivityMinutes,
		ScreenTimeMinutes:       d.ScreenTimeMinutes,
		StressLevel:             d.StressLevel,
		BMICategory:             o.BMICategory,
	}
	if o.DailySteps != nil {
		r.DailySteps = *o.DailySteps
	}
	if o.PhysicalActivityMinutes != nil {
		r.PhysicalActivityMinutes = *o.PhysicalActivityMinutes
	}
	if o.ScreenTimeMinutes != nil {
		r.ScreenTimeMinutes = *o.ScreenTimeMinutes
	}
	if o.StressLevel != nil {
		r.StressLevel = *o.StressLevel
	}
	if r.BMICategory == "" {
		r.BMICategory = d.BMICategory
	}
	return r
}
