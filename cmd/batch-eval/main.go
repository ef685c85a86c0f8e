package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/somnolab/sleepq/internal/batchtool"
)

// Default configuration constants.
const (
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		inputFile  = flag.String("input", "", "CSV file with observation rows")
		outputFile = flag.String("output", "", "JSON file for per-row results")
		workers    = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for run output (default: batch_eval_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Log every evaluated row")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		batchtool.ShowHelp()
		return
	}
	if *inputFile == "" {
		batchtool.ShowHelp()
		os.Exit(2)
	}

	if err := batchtool.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &batchtool.Config{
		BaseURL:    *baseURL,
		InputFile:  *inputFile,
		OutputFile: *outputFile,
		Workers:    *workers,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := batchtool.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Batch evaluation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
