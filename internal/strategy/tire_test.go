package strategy

import (
	"math"
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

func TestDegradationFreshTire(t *testing.T) {
	m := NewPhysicsModel()
	for _, c := range domain.DryCompounds() {
		if deg := m.Degradation(c, 0, 30.0); deg != 0 {
			t.Errorf("expected zero degradation on fresh %s but found %f", c, deg)
		}
	}
}

func TestDegradationMonotonicInAge(t *testing.T) {
	m := NewPhysicsModel(WithAbrasiveness(1.2))
	compounds := append(domain.DryCompounds(),
		domain.TireCompoundIntermediate, domain.TireCompoundFullWet)
	for _, c := range compounds {
		t.Run(string(c), func(t *testing.T) {
			prev := -1.0
			for age := 0; age <= 60; age++ {
				deg := m.Degradation(c, age, 35.0)
				if deg < prev {
					t.Errorf("expected degradation at age %d >= %f but found %f", age, prev, deg)
				}
				if deg < 0 || deg > 1 {
					t.Errorf("expected degradation in [0,1] but found %f at age %d", deg, age)
				}
				prev = deg
			}
		})
	}
}

func TestDegradationDryCompoundOrdering(t *testing.T) {
	m := NewPhysicsModel()
	for age := 1; age <= 30; age++ {
		soft := m.Degradation(domain.TireCompoundSoft, age, 30.0)
		medium := m.Degradation(domain.TireCompoundMedium, age, 30.0)
		hard := m.Degradation(domain.TireCompoundHard, age, 30.0)
		if !(soft > medium && medium > hard) {
			t.Errorf("expected soft > medium > hard at age %d but found %f, %f, %f",
				age, soft, medium, hard)
		}
	}
}

func TestDegradationTemperatureEffect(t *testing.T) {
	m := NewPhysicsModel()

	t.Run("flat at or below reference", func(t *testing.T) {
		cool := m.Degradation(domain.TireCompoundMedium, 15, 20.0)
		ref := m.Degradation(domain.TireCompoundMedium, 15, 30.0)
		if cool != ref {
			t.Errorf("expected equal degradation below reference temp but found %f and %f", cool, ref)
		}
	})
	t.Run("non-decreasing above reference", func(t *testing.T) {
		prev := -1.0
		for temp := 30.0; temp <= 55.0; temp += 1.0 {
			deg := m.Degradation(domain.TireCompoundMedium, 15, temp)
			if deg < prev {
				t.Errorf("expected degradation at %.0fC >= %f but found %f", temp, prev, deg)
			}
			prev = deg
		}
	})
}

func TestLapTimeDeltaMonotonicInAge(t *testing.T) {
	// High abrasiveness pushes the soft past the cliff within the range, so
	// this covers both sides of the threshold.
	m := NewPhysicsModel(WithAbrasiveness(1.3))
	prev := math.Inf(-1)
	for age := 0; age <= 60; age++ {
		delta := m.LapTimeDelta(domain.TireCompoundSoft, age, 40.0)
		if delta < prev {
			t.Errorf("expected lap time delta at age %d >= %f but found %f", age, prev, delta)
		}
		prev = delta
	}
}

func TestLapTimeDeltaCliffContinuity(t *testing.T) {
	m := NewPhysicsModel(WithAbrasiveness(1.3))
	// The cliff term must start from zero at the threshold: the delta at any
	// age must match the closed form on both sides of the crossing.
	for age := 1; age <= 60; age++ {
		loss := m.Degradation(domain.TireCompoundSoft, age, 40.0)
		want := -0.8 + loss*3.0
		if loss > 0.9 {
			want += (loss - 0.9) * 20.0
		}
		got := m.LapTimeDelta(domain.TireCompoundSoft, age, 40.0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("expected delta %f at age %d but found %f", want, age, got)
		}
	}
}

func TestPitWindow(t *testing.T) {
	m := NewPhysicsModel()
	earliest, latest := m.PitWindow(domain.TireCompoundSoft, 32.0, 57)
	if earliest < 1 || latest > 57 || earliest > latest {
		t.Errorf("expected a window within [1, 57] but found [%d, %d]", earliest, latest)
	}
	hardEarliest, _ := m.PitWindow(domain.TireCompoundHard, 32.0, 57)
	if hardEarliest <= earliest {
		t.Errorf("expected the hard window to open after the soft's (%d) but found %d",
			earliest, hardEarliest)
	}
}

func TestCalibratedModel(t *testing.T) {
	fitted := NewCalibratedModel(map[domain.TireCompound]float64{
		domain.TireCompoundSoft: 0.12,
	})
	stock := NewPhysicsModel()

	if got, want := fitted.Degradation(domain.TireCompoundSoft, 10, 30.0),
		stock.Degradation(domain.TireCompoundSoft, 10, 30.0); got <= want {
		t.Errorf("expected fitted soft degradation above stock %f but found %f", want, got)
	}
	if got, want := fitted.Degradation(domain.TireCompoundHard, 10, 30.0),
		stock.Degradation(domain.TireCompoundHard, 10, 30.0); got != want {
		t.Errorf("expected unfitted hard degradation %f but found %f", want, got)
	}
}
