// Package types contains common types used across the application
package types

// Category is a three-way sleep quality classification.
type Category string

// Sleep quality categories, worst to best.
const (
	Poor    Category = "Poor"
	Average Category = "Average"
	Good    Category = "Good"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Poor, Average, Good:
		return true
	}
	return false
}

// Result mirrors the response shape returned by evaluations.
type Result struct {
	Prediction         string             `json:"prediction"`
	Confidence         float64            `json:"confidence"`
	Score              float64            `json:"score"`
	RuleBased          string             `json:"rule_based"`
	MLBased            string             `json:"ml_based"`
	ClassProbabilities map[string]float64 `json:"class_probabilities,omitempty"`
	Recommendations    []string           `json:"recommendations"`
	Explanation        map[string]any     `json:"explanation,omitempty"`
}

// BatchRow pairs one batch result with its input row index. Exactly one of
// Result and Error is meaningful.
type BatchRow struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}
