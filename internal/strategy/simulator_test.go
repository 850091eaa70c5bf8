package strategy

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

// bahrainConfig is the reference race used throughout the package tests.
func bahrainConfig() domain.RaceConfig {
	return domain.RaceConfig{
		TrackName:         "Bahrain International Circuit",
		Laps:              57,
		BaseLapTime:       93.0,
		TrackTemp:         32.0,
		TrackAbrasiveness: 1.2,
		PitLossTime:       22.0,
		InitialFuel:       110.0,
	}
}

// testLogger creates a logger that writes to /dev/null so logs don't uglify
// the test output.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func oneStop(start, next domain.TireCompound, lap int) domain.Strategy {
	return domain.NewStrategy(start, domain.PitStop{
		Lap:         lap,
		OldCompound: start,
		NewCompound: next,
	})
}

func TestValidateStrategy(t *testing.T) {
	sim := New(bahrainConfig(), WithSimLogger(testLogger(t)))
	dry := domain.NewDryWeather(32.0)

	t.Run("legal one stop", func(t *testing.T) {
		err := sim.ValidateStrategy(oneStop(domain.TireCompoundMedium, domain.TireCompoundHard, 28), dry)
		if err != nil {
			t.Errorf("expected no error but found %v", err)
		}
	})
	t.Run("single compound on a dry race", func(t *testing.T) {
		err := sim.ValidateStrategy(oneStop(domain.TireCompoundMedium, domain.TireCompoundMedium, 28), dry)
		if !errors.Is(err, domain.ErrInvalidStrategy) {
			t.Errorf("expected ErrInvalidStrategy but found %v", err)
		}
	})
	t.Run("single compound on a wet race", func(t *testing.T) {
		wet := domain.WeatherState{TrackTemp: 24.0, AirTemp: 20.0, RainIntensity: 0.6, GripEvolution: 0.8}
		strat := oneStop(domain.TireCompoundIntermediate, domain.TireCompoundIntermediate, 28)
		if err := sim.ValidateStrategy(strat, wet); err != nil {
			t.Errorf("expected no error but found %v", err)
		}
	})
	t.Run("pit lap out of bounds", func(t *testing.T) {
		for _, lap := range []int{0, -3, 57, 99} {
			err := sim.ValidateStrategy(oneStop(domain.TireCompoundMedium, domain.TireCompoundHard, lap), dry)
			if !errors.Is(err, domain.ErrInvalidStrategy) {
				t.Errorf("expected ErrInvalidStrategy for pit lap %d but found %v", lap, err)
			}
		}
	})
	t.Run("pit laps must increase", func(t *testing.T) {
		strat := domain.NewStrategy(
			domain.TireCompoundSoft,
			domain.PitStop{Lap: 30, OldCompound: domain.TireCompoundSoft, NewCompound: domain.TireCompoundMedium},
			domain.PitStop{Lap: 18, OldCompound: domain.TireCompoundMedium, NewCompound: domain.TireCompoundHard},
		)
		if err := sim.ValidateStrategy(strat, dry); !errors.Is(err, domain.ErrInvalidStrategy) {
			t.Errorf("expected ErrInvalidStrategy but found %v", err)
		}
	})
	t.Run("unknown compound", func(t *testing.T) {
		err := sim.ValidateStrategy(oneStop(domain.TireCompoundUnknown, domain.TireCompoundHard, 28), dry)
		if !errors.Is(err, domain.ErrInvalidStrategy) {
			t.Errorf("expected ErrInvalidStrategy but found %v", err)
		}
	})
}

func TestSimulate(t *testing.T) {
	cfg := bahrainConfig()
	sim := New(cfg, WithSimLogger(testLogger(t)))
	strat := oneStop(domain.TireCompoundMedium, domain.TireCompoundHard, 28)

	res, err := sim.Simulate(strat, domain.NewDryWeather(cfg.TrackTemp), 10)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	if len(res.Trace) != cfg.Laps {
		t.Errorf("expected %d trace entries but found %d", cfg.Laps, len(res.Trace))
	}
	if res.TotalTime <= float64(cfg.Laps)*cfg.BaseLapTime {
		t.Errorf("expected total above the fuel-free baseline %f but found %f",
			float64(cfg.Laps)*cfg.BaseLapTime, res.TotalTime)
	}
	if res.Position < 1 || res.Position > 20 {
		t.Errorf("expected position in [1, 20] but found %d", res.Position)
	}
	if res.FuelRemaining < 0 {
		t.Errorf("expected non-negative fuel at the flag but found %f", res.FuelRemaining)
	}

	prevFuel := cfg.InitialFuel
	for _, lap := range res.Trace {
		if lap.FuelRemaining >= prevFuel {
			t.Errorf("expected fuel to decrease on lap %d but found %f after %f",
				lap.Lap, lap.FuelRemaining, prevFuel)
		}
		prevFuel = lap.FuelRemaining
		if lap.Pitted != (lap.Lap == 28) {
			t.Errorf("expected pit flag only on lap 28 but found %v on lap %d", lap.Pitted, lap.Lap)
		}
	}

	// The stop resets compound and age.
	if res.Trace[27].Compound != domain.TireCompoundHard {
		t.Errorf("expected compound %s after the stop but found %s",
			domain.TireCompoundHard, res.Trace[27].Compound)
	}
	if res.Trace[27].TireAge != 1 {
		t.Errorf("expected tire age 1 after the stop but found %d", res.Trace[27].TireAge)
	}
}

func TestSimulatePitLossCounted(t *testing.T) {
	cfg := bahrainConfig()
	sim := New(cfg, WithSimLogger(testLogger(t)))
	dry := domain.NewDryWeather(cfg.TrackTemp)

	one, err := sim.Simulate(oneStop(domain.TireCompoundMedium, domain.TireCompoundHard, 28), dry, 10)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	two, err := sim.Simulate(domain.NewStrategy(
		domain.TireCompoundMedium,
		domain.PitStop{Lap: 19, OldCompound: domain.TireCompoundMedium, NewCompound: domain.TireCompoundMedium},
		domain.PitStop{Lap: 38, OldCompound: domain.TireCompoundMedium, NewCompound: domain.TireCompoundHard},
	), dry, 10)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	// Same compounds and similar stint profile; the second stop must cost
	// roughly a pit loss.
	if two.TotalTime <= one.TotalTime {
		t.Errorf("expected the extra stop to cost time but found %f vs %f", two.TotalTime, one.TotalTime)
	}
}

func TestSimulateFuelInfeasible(t *testing.T) {
	cfg := bahrainConfig()
	cfg.InitialFuel = 20.0
	sim := New(cfg, WithSimLogger(testLogger(t)))

	_, err := sim.Simulate(
		oneStop(domain.TireCompoundMedium, domain.TireCompoundHard, 28),
		domain.NewDryWeather(cfg.TrackTemp), 10)
	if !errors.Is(err, domain.ErrInfeasibleFuel) {
		t.Errorf("expected ErrInfeasibleFuel but found %v", err)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := bahrainConfig()
	sim := New(cfg, WithSimLogger(testLogger(t)))
	strat := oneStop(domain.TireCompoundSoft, domain.TireCompoundHard, 20)
	dry := domain.NewDryWeather(cfg.TrackTemp)

	a, err := sim.Simulate(strat, dry, 10)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	b, err := sim.Simulate(strat, dry, 10)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if a.TotalTime != b.TotalTime {
		t.Errorf("expected identical totals but found %f and %f", a.TotalTime, b.TotalTime)
	}
}
