package classifier

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrModelUnavailable means no trained model is loaded. Evaluation must
	// be refused entirely, never silently degraded to rule-only.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrNoProbabilities means the artifact cannot produce a class
	// probability vector. Callers recover locally by treating confidence as
	// below any threshold.
	ErrNoProbabilities = errors.New("class probabilities unavailable")

	// ErrBadArtifact marks a model artifact that fails structural validation.
	ErrBadArtifact = errors.New("invalid model artifact")
)
