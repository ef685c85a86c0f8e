// Package batchtool is a concurrent CSV batch client for the sleepq
// evaluation service: it reads observation rows from a CSV file, submits
// them to a running service, and reports per-row results with summary
// statistics.
package batchtool

import "time"

// Config holds configuration for a batch evaluation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	InputFile  string        // CSV file with observation rows
	OutputFile string        // Output file for results (JSON), optional
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Row is one CSV observation with its input position.
type Row struct {
	Index       int                `json:"index"`
	Observation observationPayload `json:"observation"`
}

// observationPayload mirrors the service's predict request schema.
type observationPayload struct {
	Age                     int      `json:"age"`
	Gender                  string   `json:"gender"`
	SleepDuration           float64  `json:"sleep_duration"`
	DailySteps              *float64 `json:"daily_steps,omitempty"`
	PhysicalActivityMinutes *float64 `json:"physical_activity_minutes,omitempty"`
	ScreenTimeMinutes       *float64 `json:"screen_time_minutes,omitempty"`
	StressLevel             *float64 `json:"stress_level,omitempty"`
	BMICategory             string   `json:"bmi_category,omitempty"`
}

// resultPayload mirrors the service's evaluation response.
type resultPayload struct {
	Prediction         string             `json:"prediction"`
	Confidence         float64            `json:"confidence"`
	Score              float64            `json:"score"`
	RuleBased          string             `json:"rule_based"`
	MLBased            string             `json:"ml_based"`
	ClassProbabilities map[string]float64 `json:"class_probabilities"`
	Recommendations    []string           `json:"recommendations"`
}

// RowResult pairs one evaluation outcome with its input row.
type RowResult struct {
	Index  int            `json:"index"`
	Result *resultPayload `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Stats holds batch run statistics.
type Stats struct {
	RowsRead      int
	RowsSubmitted int
	RowsOK        int
	RowsFailed    int
	ByCategory    map[string]int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
