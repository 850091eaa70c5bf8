package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *domain.RaceConfig)
	}{
		{"zero laps", func(cfg *domain.RaceConfig) { cfg.Laps = 0 }},
		{"negative base lap time", func(cfg *domain.RaceConfig) { cfg.BaseLapTime = -1 }},
		{"negative pit loss", func(cfg *domain.RaceConfig) { cfg.PitLossTime = -5 }},
		{"negative fuel", func(cfg *domain.RaceConfig) { cfg.InitialFuel = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := bahrainConfig()
			tt.mutate(&cfg)
			if _, err := NewEngine(cfg); !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig but found %v", err)
			}
		})
	}
}

func TestEngineOptimize(t *testing.T) {
	e, err := NewEngine(bahrainConfig(), WithEngineLogger(testLogger(t)))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	report, err := e.Optimize(context.Background(), OptimizeRequest{MaxStops: 2, TopN: 5})
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(report.Results) != 5 {
		t.Errorf("expected 5 ranked results but found %d", len(report.Results))
	}
	if report.Best().TotalTime != report.Results[0].TotalTime {
		t.Errorf("expected best to be the first ranked result")
	}
}

func TestEngineOptimizeWithMonteCarlo(t *testing.T) {
	e, err := NewEngine(bahrainConfig(),
		WithEngineLogger(testLogger(t)),
		WithEngineSeed(5),
	)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	report, err := e.Optimize(context.Background(), OptimizeRequest{
		MaxStops:   1,
		TopN:       3,
		MonteCarlo: true,
		Trials:     100,
	})
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(report.MonteCarlo) == 0 {
		t.Fatal("expected Monte Carlo summaries but found none")
	}
	for _, s := range report.MonteCarlo {
		if s.Mean < s.Min || s.Mean > s.Max {
			t.Errorf("expected mean %f within [%f, %f] for %s", s.Mean, s.Min, s.Max, s.Strategy)
		}
	}
}

func TestEngineNoFeasibleStrategy(t *testing.T) {
	cfg := bahrainConfig()
	cfg.InitialFuel = 10.0 // not enough for any strategy
	e, err := NewEngine(cfg, WithEngineLogger(testLogger(t)))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	_, err = e.Optimize(context.Background(), OptimizeRequest{MaxStops: 2})
	if !errors.Is(err, domain.ErrNoFeasibleStrategy) {
		t.Errorf("expected ErrNoFeasibleStrategy but found %v", err)
	}
}

func TestRecommendNow(t *testing.T) {
	e, err := NewEngine(bahrainConfig(), WithEngineLogger(testLogger(t)))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	ctx := context.Background()

	t.Run("fuel critical", func(t *testing.T) {
		rec, err := e.RecommendNow(ctx, domain.LiveSnapshot{
			CurrentLap:    20,
			Position:      8,
			TireCompound:  domain.TireCompoundMedium,
			TireAge:       10,
			FuelRemaining: 20.0, // 37 laps to go
			GapAhead:      3.0,
			GapBehind:     6.0,
			Weather:       domain.NewDryWeather(32.0),
		})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if rec.Action != domain.ActionFuelSave {
			t.Errorf("expected action %s but found %s", domain.ActionFuelSave, rec.Action)
		}
		if rec.FuelMode != domain.FuelModeSaving {
			t.Errorf("expected fuel mode %s but found %s", domain.FuelModeSaving, rec.FuelMode)
		}
	})
	t.Run("slicks in the rain", func(t *testing.T) {
		rec, err := e.RecommendNow(ctx, domain.LiveSnapshot{
			CurrentLap:    30,
			Position:      5,
			TireCompound:  domain.TireCompoundMedium,
			TireAge:       8,
			FuelRemaining: 60.0,
			GapAhead:      2.0,
			GapBehind:     8.0,
			Weather: domain.WeatherState{
				TrackTemp: 26.0, AirTemp: 21.0, RainIntensity: 0.6, GripEvolution: 0.85,
			},
		})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if rec.Action != domain.ActionPitNow {
			t.Errorf("expected action %s but found %s", domain.ActionPitNow, rec.Action)
		}
	})
	t.Run("tires past the cliff", func(t *testing.T) {
		rec, err := e.RecommendNow(ctx, domain.LiveSnapshot{
			CurrentLap:    40,
			Position:      6,
			TireCompound:  domain.TireCompoundSoft,
			TireAge:       35,
			FuelRemaining: 40.0,
			GapAhead:      4.0,
			GapBehind:     25.0,
			Weather:       domain.NewDryWeather(32.0),
		})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if rec.Action != domain.ActionPitNow {
			t.Errorf("expected action %s but found %s", domain.ActionPitNow, rec.Action)
		}
		if rec.Degradation <= 0.9 {
			t.Errorf("expected degradation past the cliff but found %f", rec.Degradation)
		}
	})
	t.Run("final lap", func(t *testing.T) {
		rec, err := e.RecommendNow(ctx, domain.LiveSnapshot{CurrentLap: 57})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if rec.Action != domain.ActionStayOut {
			t.Errorf("expected action %s but found %s", domain.ActionStayOut, rec.Action)
		}
	})
	t.Run("remaining plans use absolute laps", func(t *testing.T) {
		rec, err := e.RecommendNow(ctx, domain.LiveSnapshot{
			CurrentLap:    20,
			Position:      8,
			TireCompound:  domain.TireCompoundMedium,
			TireAge:       15,
			FuelRemaining: 70.0,
			GapAhead:      3.0,
			GapBehind:     10.0,
			Weather:       domain.NewDryWeather(32.0),
		})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		for _, res := range rec.Results {
			for _, stop := range res.Strategy.Stops {
				if stop.Lap <= 20 || stop.Lap >= 57 {
					t.Errorf("expected pit laps within (20, 57) but found %d", stop.Lap)
				}
			}
		}
	})
}
