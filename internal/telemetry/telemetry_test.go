package telemetry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

func TestReadCSV(t *testing.T) {
	t.Run("valid rows", func(t *testing.T) {
		in := `lap,lap_time,compound,tire_age,track_temp
1,94.210,SOFT,1,32.0
2,94.305,SOFT,2,32.0
3,94.488,soft,3,32.1
`
		records, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records but found %d", len(records))
		}
		if records[0].LapTime != 94.210 {
			t.Errorf("expected lap time %f but found %f", 94.210, records[0].LapTime)
		}
		if records[2].Compound != domain.TireCompoundSoft {
			t.Errorf("expected compound %s but found %s", domain.TireCompoundSoft, records[2].Compound)
		}
	})
	t.Run("garbage rows skipped", func(t *testing.T) {
		in := `lap,lap_time,compound,tire_age,track_temp
1,94.210,SOFT,1,32.0
2,,SOFT,2,32.0
3,94.488,GRAVEL,3,32.1
4,-5.0,SOFT,4,32.0
5,95.102,SOFT,5,32.0
`
		records, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records but found %d", len(records))
		}
	})
	t.Run("wrong header", func(t *testing.T) {
		in := "lap,time,tyre,age,temp\n1,94.2,SOFT,1,32.0\n"
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Error("expected an error but found none")
		}
	})
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	records := []LapRecord{
		{Lap: 1, LapTime: 94.2, Compound: domain.TireCompoundSoft, TireAge: 1, TrackTemp: 32.0},
		{Lap: 2, LapTime: 94.4, Compound: domain.TireCompoundSoft, TireAge: 2, TrackTemp: 32.0},
		{Lap: 3, LapTime: 95.1, Compound: domain.TireCompoundHard, TireAge: 1, TrackTemp: 32.0},
	}
	if err := store.InsertLaps(ctx, "bahrain-2024", records); err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	n, err := store.CountLaps(ctx, "bahrain-2024")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 stored laps but found %d", n)
	}

	softs, err := store.LapsByCompound(ctx, domain.TireCompoundSoft, "bahrain-2024")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(softs) != 2 {
		t.Fatalf("expected 2 soft laps but found %d", len(softs))
	}
	if softs[0].TireAge != 1 || softs[1].TireAge != 2 {
		t.Errorf("expected laps ordered by tire age but found %d, %d", softs[0].TireAge, softs[1].TireAge)
	}

	compounds, err := store.Compounds(ctx, "")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(compounds) != 2 {
		t.Errorf("expected 2 distinct compounds but found %d", len(compounds))
	}

	other, err := store.LapsByCompound(ctx, domain.TireCompoundSoft, "jeddah-2024")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no laps for an unknown source but found %d", len(other))
	}
}

func TestFitDegradationRates(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	// Laps with a clean 0.24 s/lap wear slope: rate = 0.24 / 3.0 = 0.08.
	var records []LapRecord
	for age := 1; age <= 20; age++ {
		records = append(records, LapRecord{
			Lap:       age,
			LapTime:   93.0 + 0.24*float64(age),
			Compound:  domain.TireCompoundSoft,
			TireAge:   age,
			TrackTemp: 32.0,
		})
	}
	// Too few hard laps to fit.
	records = append(records,
		LapRecord{Lap: 21, LapTime: 94.0, Compound: domain.TireCompoundHard, TireAge: 1, TrackTemp: 32.0},
		LapRecord{Lap: 22, LapTime: 94.1, Compound: domain.TireCompoundHard, TireAge: 2, TrackTemp: 32.0},
	)
	if err := store.InsertLaps(ctx, "test", records); err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	rates, err := FitDegradationRates(ctx, store, "test")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	soft, ok := rates[domain.TireCompoundSoft]
	if !ok {
		t.Fatal("expected a fitted soft rate but found none")
	}
	if diff := soft - 0.08; diff < -0.001 || diff > 0.001 {
		t.Errorf("expected a rate near %f but found %f", 0.08, soft)
	}
	if _, ok := rates[domain.TireCompoundHard]; ok {
		t.Error("expected no hard rate from an undersized sample but found one")
	}
}

func TestFitRateRejectsNoise(t *testing.T) {
	// Flat lap times carry no wear signal.
	var flat []LapRecord
	for age := 1; age <= 10; age++ {
		flat = append(flat, LapRecord{Lap: age, LapTime: 93.0, Compound: domain.TireCompoundMedium, TireAge: age, TrackTemp: 30.0})
	}
	if _, ok := fitRate(flat); ok {
		t.Error("expected no fit from flat lap times but found one")
	}

	// Improving lap times (fuel burn dominating) are not a wear rate either.
	var improving []LapRecord
	for age := 1; age <= 10; age++ {
		improving = append(improving, LapRecord{
			Lap: age, LapTime: 93.0 - 0.1*float64(age),
			Compound: domain.TireCompoundMedium, TireAge: age, TrackTemp: 30.0,
		})
	}
	if _, ok := fitRate(improving); ok {
		t.Error("expected no fit from improving lap times but found one")
	}
}

func TestReadCSVLargeFile(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("lap,lap_time,compound,tire_age,track_temp\n")
	for lap := 1; lap <= 500; lap++ {
		fmt.Fprintf(&sb, "%d,%.3f,MEDIUM,%d,31.5\n", lap, 93.0+0.05*float64(lap%30), lap%30+1)
	}
	records, err := ReadCSV(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if len(records) != 500 {
		t.Errorf("expected 500 records but found %d", len(records))
	}
}
