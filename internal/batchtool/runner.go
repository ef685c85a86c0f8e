package batchtool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/somnolab/sleepq/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// Run executes a complete batch evaluation: health check, CSV read,
// concurrent submission, and summary. Output order always matches input
// order regardless of which worker finished first.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime:  time.Now(),
		ByCategory: make(map[string]int),
	}

	logger.Get().Info(ctx, "starting batch evaluation",
		logger.String("baseURL", config.BaseURL),
		logger.String("input", config.InputFile),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
	)

	client := NewClient(config.BaseURL, config.Timeout)

	if err := client.CheckHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	rows, err := ReadObservations(config.InputFile)
	if err != nil {
		return fmt.Errorf("reading observations failed: %w", err)
	}
	stats.RowsRead = len(rows)
	if len(rows) == 0 {
		return fmt.Errorf("input %s contains no observation rows", config.InputFile)
	}

	results := submit(ctx, config, client, rows, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logSummary(ctx, stats)

	if config.OutputFile != "" {
		if err := writeResults(config.OutputFile, results); err != nil {
			return fmt.Errorf("writing results failed: %w", err)
		}
		logger.Get().Info(ctx, "results written", logger.String("output", config.OutputFile))
	}
	return nil
}

// submit evaluates rows concurrently, writing each result into its input
// slot.
func submit(ctx context.Context, config *Config, client *Client, rows []Row, stats *Stats) []RowResult {
	results := make([]RowResult, len(rows))

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				row := rows[i]
				result, err := client.Predict(ctx, row.Observation)
				if err != nil {
					results[i] = RowResult{Index: row.Index, Error: err.Error()}
					continue
				}
				results[i] = RowResult{Index: row.Index, Result: result}
				if config.Verbose {
					logger.Get().Info(ctx, "row evaluated",
						logger.Int("index", row.Index),
						logger.String("prediction", result.Prediction),
						logger.Float64("confidence", result.Confidence),
					)
				}
			}
		}()
	}

	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			for j := range results {
				if results[j].Result == nil && results[j].Error == "" {
					results[j] = RowResult{Index: j, Error: ctx.Err().Error()}
				}
			}
			tally(results, stats)
			return results
		}
	}
	close(jobs)
	wg.Wait()

	tally(results, stats)
	return results
}

func tally(results []RowResult, stats *Stats) {
	stats.RowsSubmitted = len(results)
	for _, res := range results {
		if res.Result == nil {
			stats.RowsFailed++
			continue
		}
		stats.RowsOK++
		stats.ByCategory[res.Result.Prediction]++
	}
}

func logSummary(ctx context.Context, stats *Stats) {
	fields := []logger.Field{
		logger.Int("rowsRead", stats.RowsRead),
		logger.Int("rowsOK", stats.RowsOK),
		logger.Int("rowsFailed", stats.RowsFailed),
		logger.String("duration", stats.Duration.String()),
	}
	for category, n := range stats.ByCategory {
		fields = append(fields, logger.Int("category_"+category, n))
	}
	logger.Get().Info(ctx, "batch evaluation finished", fields...)
}

func writeResults(path string, results []RowResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, outputFilePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
