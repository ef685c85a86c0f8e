package score

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidRange marks malformed or out-of-domain numeric input. It is
	// surfaced to the caller, never recovered inside the engine.
	ErrInvalidRange = errors.New("value out of range")
)
