package batchtool

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/somnolab/sleepq/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "batch_eval_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the batch evaluation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sleepq Batch Evaluation Tool
============================

Reads observation rows from a CSV file and evaluates them against a running
sleepq service, preserving input row order in the output.

Usage:
  go run cmd/batch-eval/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -input string
        CSV file with observation rows (required)
  -output string
        JSON file for per-row results (default: none)
  -workers int
        Number of concurrent workers (default: NumCPU)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: batch_eval_TIMESTAMP.log)
  -verbose
        Log every evaluated row
  -help
        Show this help

CSV columns (header required, order free, unknown columns ignored):
  age, gender, sleep_duration, daily_steps, physical_activity_minutes,
  screen_time_minutes, stress_level, bmi_category

Empty cells in optional columns are left absent so the service's defaults
policy applies.
`)
}
