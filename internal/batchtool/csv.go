package batchtool

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Recognized CSV header names. Column order is free; unknown columns are
// ignored.
const (
	colAge        = "age"
	colGender     = "gender"
	colSleep      = "sleep_duration"
	colSteps      = "daily_steps"
	colActivity   = "physical_activity_minutes"
	colScreenTime = "screen_time_minutes"
	colStress     = "stress_level"
	colBMI        = "bmi_category"
)

// ReadObservations parses observation rows from a CSV file. The first
// record must be a header; empty cells in optional columns stay absent so
// the service's defaults policy applies.
func ReadObservations(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colSleep]; !ok {
		return nil, fmt.Errorf("input %s: missing required column %q", path, colSleep)
	}

	var rows []Row
	for i := 0; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		obs, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, Row{Index: i, Observation: obs})
	}
	return rows, nil
}

func parseRow(record []string, cols map[string]int) (observationPayload, error) {
	var obs observationPayload

	cell := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}

	if v, ok := cell(colAge); ok {
		age, err := strconv.Atoi(v)
		if err != nil {
			return obs, fmt.Errorf("bad %s %q: %w", colAge, v, err)
		}
		obs.Age = age
	}
	if v, ok := cell(colGender); ok {
		obs.Gender = v
	}
	if v, ok := cell(colBMI); ok {
		obs.BMICategory = v
	}

	if v, ok := cell(colSleep); ok {
		sleep, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return obs, fmt.Errorf("bad %s %q: %w", colSleep, v, err)
		}
		obs.SleepDuration = sleep
	}

	optional := []struct {
		name string
		dst  **float64
	}{
		{colSteps, &obs.DailySteps},
		{colActivity, &obs.PhysicalActivityMinutes},
		{colScreenTime, &obs.ScreenTimeMinutes},
		{colStress, &obs.StressLevel},
	}
	for _, opt := range optional {
		v, ok := cell(opt.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return obs, fmt.Errorf("bad %s %q: %w", opt.name, v, err)
		}
		*opt.dst = &parsed
	}
	return obs, nil
}
