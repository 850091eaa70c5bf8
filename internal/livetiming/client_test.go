package livetiming

import (
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

func TestProcessReferenceMessage(t *testing.T) {
	t.Parallel()
	td := testdataDir()
	ref, _ := os.ReadFile(path.Join(td, "ref-msg-race.json"))

	c := New(WithLogger(testLogger(t)), WithDriverNumber("16"))
	go c.processMessage(ref)

	// The reference message carries weather, lap count, stint and timing
	// data; the last emitted snapshot holds the fully folded state.
	var snapshot domain.LiveSnapshot
	for i := 0; i < 4; i++ {
		snapshot = <-c.Snapshots()
	}

	if snapshot.CurrentLap != 23 {
		t.Errorf("expected current lap %d but found %d", 23, snapshot.CurrentLap)
	}
	if snapshot.Position != 3 {
		t.Errorf("expected position %d but found %d", 3, snapshot.Position)
	}
	if snapshot.TireCompound != domain.TireCompoundMedium {
		t.Errorf("expected tire compound '%s' but found '%s'", domain.TireCompoundMedium, snapshot.TireCompound)
	}
	if snapshot.TireAge != 11 {
		t.Errorf("expected tire age %d but found %d", 11, snapshot.TireAge)
	}
	if snapshot.GapAhead != 2.468 {
		t.Errorf("expected gap ahead %f but found %f", 2.468, snapshot.GapAhead)
	}
	if snapshot.GapBehind != 1.102 {
		t.Errorf("expected gap behind %f but found %f", 1.102, snapshot.GapBehind)
	}
	if snapshot.Weather.TrackTemp != 35.2 {
		t.Errorf("expected track temp %f but found %f", 35.2, snapshot.Weather.TrackTemp)
	}
	if snapshot.Weather.IsWet() {
		t.Error("expected dry conditions but found wet")
	}
	// Fuel estimate: 22 completed laps of normal-mode burn off the initial load.
	want := 110.0 - 22*normalBurnPerLap
	if snapshot.FuelRemaining != want {
		t.Errorf("expected fuel estimate %f but found %f", want, snapshot.FuelRemaining)
	}
}

func TestProcessChangeMessage(t *testing.T) {
	t.Run("weather update", func(t *testing.T) {
		t.Parallel()
		td := testdataDir()
		msg, _ := os.ReadFile(path.Join(td, "change-msg-weather.json"))

		c := New(WithLogger(testLogger(t)), WithDriverNumber("16"))
		go c.processMessage(msg)

		snapshot := <-c.Snapshots()
		if snapshot.Weather.TrackTemp != 29.4 {
			t.Errorf("expected track temp %f but found %f", 29.4, snapshot.Weather.TrackTemp)
		}
		if snapshot.Weather.AirTemp != 23.1 {
			t.Errorf("expected air temp %f but found %f", 23.1, snapshot.Weather.AirTemp)
		}
		if !snapshot.Weather.IsWet() {
			t.Error("expected wet conditions but found dry")
		}
	})
	t.Run("stint and lap count update", func(t *testing.T) {
		t.Parallel()
		td := testdataDir()
		msg, _ := os.ReadFile(path.Join(td, "change-msg-stint.json"))

		c := New(WithLogger(testLogger(t)), WithDriverNumber("16"))
		go c.processMessage(msg)

		var snapshot domain.LiveSnapshot
		for i := 0; i < 2; i++ {
			snapshot = <-c.Snapshots()
		}
		if snapshot.TireCompound != domain.TireCompoundHard {
			t.Errorf("expected tire compound '%s' but found '%s'", domain.TireCompoundHard, snapshot.TireCompound)
		}
		if snapshot.TireAge != 2 {
			t.Errorf("expected tire age %d but found %d", 2, snapshot.TireAge)
		}
		if snapshot.Position != 5 {
			t.Errorf("expected position %d but found %d", 5, snapshot.Position)
		}
		if snapshot.CurrentLap != 26 {
			t.Errorf("expected current lap %d but found %d", 26, snapshot.CurrentLap)
		}
	})
	t.Run("message for another car", func(t *testing.T) {
		t.Parallel()
		td := testdataDir()
		msg, _ := os.ReadFile(path.Join(td, "change-msg-stint.json"))

		// Following a car that is not in the message: only the lap count
		// part should emit.
		c := New(WithLogger(testLogger(t)), WithDriverNumber("44"))
		go c.processMessage(msg)

		snapshot := <-c.Snapshots()
		if snapshot.CurrentLap != 26 {
			t.Errorf("expected current lap %d but found %d", 26, snapshot.CurrentLap)
		}
		if snapshot.TireCompound != "" {
			t.Errorf("expected no tire data but found '%s'", snapshot.TireCompound)
		}
	})
}

func TestParseGap(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"+1.234", 1.234, true},
		{"12.801", 12.801, true},
		{"+1:02.345", 62.345, true},
		{"1 L", 0, false},
		{"", 0, false},
		{"+2 L", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseGap(tt.in)
		if ok != tt.ok {
			t.Errorf("expected ok=%v for '%s' but found %v", tt.ok, tt.in, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("expected %f for '%s' but found %f", tt.want, tt.in, got)
		}
	}
}

func testdataDir() string {
	_, p, _, _ := runtime.Caller(0)
	return path.Join(filepath.Dir(p), "testdata")
}

// testLogger creates a new logger to be used in tests that writes all logs to /dev/null so they
// don't uglify the test output.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
