package telemetry

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/bcdxn/f1strategy/internal/domain"
)

const (
	// minFitSamples is the fewest laps worth fitting a rate from.
	minFitSamples = 5
	// timeGainPerLoss converts lap-time slope back to a decay rate: each
	// unit of degradation is worth this many seconds of lap time, so over
	// the near-linear early life of a set, slope ~= rate * timeGainPerLoss.
	timeGainPerLoss = 3.0
	// Fitted rates outside this range are telemetry noise, not physics.
	minDecayRate = 0.005
	maxDecayRate = 0.30
)

// FitDegradationRates fits a per-compound decay rate from the stored laps of
// one source (empty means all sources): an ordinary least squares slope of
// lap time against tire age, converted to the exponential model's rate.
// Compounds with too few laps or a degenerate fit are omitted.
func FitDegradationRates(ctx context.Context, store *Store, source string) (map[domain.TireCompound]float64, error) {
	compounds, err := store.Compounds(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("listing stored compounds: %w", err)
	}

	rates := make(map[domain.TireCompound]float64, len(compounds))
	for _, c := range compounds {
		records, err := store.LapsByCompound(ctx, c, source)
		if err != nil {
			return nil, fmt.Errorf("loading %s laps: %w", c, err)
		}
		rate, ok := fitRate(records)
		if !ok {
			continue
		}
		rates[c] = rate
	}
	return rates, nil
}

// fitRate regresses lap time on tire age and converts the slope to a decay
// rate. It reports false when the sample is too small or the slope is not a
// plausible wear signal.
func fitRate(records []LapRecord) (float64, bool) {
	if len(records) < minFitSamples {
		return 0, false
	}
	ages := make([]float64, len(records))
	times := make([]float64, len(records))
	for i, rec := range records {
		ages[i] = float64(rec.TireAge)
		times[i] = rec.LapTime
	}
	_, slope := stat.LinearRegression(ages, times, nil, false)
	rate := slope / timeGainPerLoss
	if rate < minDecayRate || rate > maxDecayRate {
		return 0, false
	}
	return rate, true
}
