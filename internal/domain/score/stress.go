package score

import (
	"fmt"
	"math"
)

// Scale identifies which raw stress scale callers feed the engine. The
// active scale is declared configuration; it is never guessed from the
// magnitude of individual values.
type Scale string

// Supported raw stress scales.
const (
	ScaleZeroToTen  Scale = "0-10"
	ScaleZeroToFour Scale = "0-4"
)

// Valid reports whether s names a supported scale.
func (s Scale) Valid() bool {
	return s == ScaleZeroToTen || s == ScaleZeroToFour
}

// NormalizeStress maps a raw stress value onto the canonical 0-4 scale all
// banding logic assumes. A 0-10 raw value is clamped to [1,10] and remapped
// with round((raw-1)*4/9); a 0-4 raw value passes through unchanged.
// Values outside the declared scale's domain fail with ErrInvalidRange.
func NormalizeStress(raw float64, scale Scale) (float64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("stress %v: %w", raw, ErrInvalidRange)
	}
	switch scale {
	case ScaleZeroToTen:
		if raw < 0 || raw > 10 {
			return 0, fmt.Errorf("stress %v on scale %s: %w", raw, scale, ErrInvalidRange)
		}
		clamped := math.Min(math.Max(raw, 1), 10)
		v := math.Round((clamped - 1) * 4 / 9)
		return math.Min(math.Max(v, 0), 4), nil
	case ScaleZeroToFour:
		if raw < 0 || raw > 4 {
			return 0, fmt.Errorf("stress %v on scale %s: %w", raw, scale, ErrInvalidRange)
		}
		return raw, nil
	default:
		return 0, fmt.Errorf("undeclared stress scale %q: %w", scale, ErrInvalidRange)
	}
}
