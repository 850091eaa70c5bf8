// Package telemetry ingests historical lap data (CSV exports, timing feeds)
// into a SQLite store and fits per-compound degradation rates from it. The
// store holds calibration inputs only; simulation results are never
// persisted.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bcdxn/f1strategy/internal/domain"
)

// LapRecord is one historical lap as ingested from a CSV export or a timing
// feed: the minimum needed to fit a degradation rate.
type LapRecord struct {
	Lap       int                 // Race lap number
	LapTime   float64             // Lap time in seconds
	Compound  domain.TireCompound // Compound in use
	TireAge   int                 // Laps on the set when the lap was driven
	TrackTemp float64             // Track temperature in Celsius during the lap
}

// csvHeader is the expected column order of a lap-data CSV export.
var csvHeader = []string{"lap", "lap_time", "compound", "tire_age", "track_temp"}

// ReadCSV parses lap records from a CSV stream with the header
// lap,lap_time,compound,tire_age,track_temp. Rows with unknown compounds or
// non-positive lap times are skipped rather than failing the import; timing
// exports routinely carry in/out laps and garbage rows.
func ReadCSV(r io.Reader) ([]LapRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) < len(csvHeader) {
		return nil, fmt.Errorf("expected csv header %v, got %v", csvHeader, header)
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("expected csv column %d to be %q, got %q", i, want, header[i])
		}
	}

	var records []LapRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (LapRecord, bool) {
	if len(row) < len(csvHeader) {
		return LapRecord{}, false
	}
	lap, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return LapRecord{}, false
	}
	lapTime, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil || lapTime <= 0 {
		return LapRecord{}, false
	}
	compound := domain.TireCompound(strings.ToUpper(strings.TrimSpace(row[2])))
	if !compound.Valid() {
		return LapRecord{}, false
	}
	age, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil || age < 0 {
		return LapRecord{}, false
	}
	temp, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil {
		return LapRecord{}, false
	}
	return LapRecord{Lap: lap, LapTime: lapTime, Compound: compound, TireAge: age, TrackTemp: temp}, true
}
