package strategy

import (
	"testing"

	"github.com/bcdxn/f1strategy/internal/domain"
)

func TestOvertakeProbability(t *testing.T) {
	m := NewOpponentModel(NewPhysicsModel())

	t.Run("bounded", func(t *testing.T) {
		for gap := 0.0; gap <= 10.0; gap += 0.5 {
			for pace := -3.0; pace <= 3.0; pace += 1.0 {
				p := m.OvertakeProbability(pace, gap, 0, true)
				if p < 0 || p > 1 {
					t.Errorf("expected probability in [0,1] but found %f at gap %f pace %f", p, gap, pace)
				}
			}
		}
	})
	t.Run("decreasing in gap", func(t *testing.T) {
		prev := 2.0
		for gap := 0.0; gap <= 10.0; gap += 0.25 {
			p := m.OvertakeProbability(0.5, gap, 0, false)
			if p > prev {
				t.Errorf("expected probability at gap %f <= %f but found %f", gap, prev, p)
			}
			prev = p
		}
	})
	t.Run("increasing in pace advantage", func(t *testing.T) {
		prev := -1.0
		for pace := -2.0; pace <= 2.0; pace += 0.25 {
			p := m.OvertakeProbability(pace, 1.0, 0, false)
			if p < prev {
				t.Errorf("expected probability at pace delta %f >= %f but found %f", pace, prev, p)
			}
			prev = p
		}
		slower := m.OvertakeProbability(-2.0, 1.0, 0, false)
		faster := m.OvertakeProbability(2.0, 1.0, 0, false)
		if faster <= slower {
			t.Errorf("expected a 2s/lap faster car above the slower car's %f but found %f", slower, faster)
		}
	})
	t.Run("increasing in tire age advantage", func(t *testing.T) {
		prev := -1.0
		for delta := -20; delta <= 20; delta += 5 {
			p := m.OvertakeProbability(0, 1.0, delta, false)
			if p < prev {
				t.Errorf("expected probability at tire age delta %d >= %f but found %f", delta, prev, p)
			}
			prev = p
		}
		worn := m.OvertakeProbability(0, 1.0, -15, false)
		fresh := m.OvertakeProbability(0, 1.0, 15, false)
		if fresh <= worn {
			t.Errorf("expected fresher rubber above the worn car's %f but found %f", worn, fresh)
		}
	})
	t.Run("drs helps", func(t *testing.T) {
		with := m.OvertakeProbability(0.5, 1.0, 0, true)
		without := m.OvertakeProbability(0.5, 1.0, 0, false)
		if with <= without {
			t.Errorf("expected DRS probability above %f but found %f", without, with)
		}
	})
	t.Run("difficult circuits suppress passing", func(t *testing.T) {
		monaco := NewOpponentModel(NewPhysicsModel(), WithOvertakingDifficulty(0.95))
		if p, q := monaco.OvertakeProbability(0.5, 0.5, 0, true), m.OvertakeProbability(0.5, 0.5, 0, true); p >= q {
			t.Errorf("expected %f below the default circuit's %f", p, q)
		}
	})
}

func TestUndercutThreat(t *testing.T) {
	m := NewOpponentModel(NewPhysicsModel())

	t.Run("worn tires and a close rival", func(t *testing.T) {
		worn := domain.TireState{Compound: domain.TireCompoundSoft, Age: 25}
		if !m.UndercutThreat(2.0, worn, 35.0, 22.0) {
			t.Error("expected an undercut threat but found none")
		}
	})
	t.Run("fresh tires leave nothing to undercut", func(t *testing.T) {
		fresh := domain.TireState{Compound: domain.TireCompoundSoft, Age: 1}
		if m.UndercutThreat(2.0, fresh, 35.0, 22.0) {
			t.Error("expected no undercut threat on fresh tires")
		}
	})
	t.Run("a pit-loss-sized gap is safe", func(t *testing.T) {
		worn := domain.TireState{Compound: domain.TireCompoundSoft, Age: 25}
		if m.UndercutThreat(25.0, worn, 35.0, 22.0) {
			t.Error("expected no undercut threat across a full pit loss")
		}
	})
}

func TestUndercutAdvantage(t *testing.T) {
	m := NewOpponentModel(NewPhysicsModel())
	old := m.UndercutAdvantage(domain.TireCompoundSoft, 25, 32.0)
	if old <= 0 {
		t.Errorf("expected a positive undercut gain on worn softs but found %f", old)
	}
	newer := m.UndercutAdvantage(domain.TireCompoundSoft, 5, 32.0)
	if newer >= old {
		t.Errorf("expected a smaller gain on younger tires but found %f vs %f", newer, old)
	}
}

func TestTrafficDelta(t *testing.T) {
	m := NewOpponentModel(NewPhysicsModel())
	if got := m.TrafficDelta(1); got != 0 {
		t.Errorf("expected zero traffic cost in the lead but found %f", got)
	}
	prev := 0.0
	for pos := 2; pos <= 20; pos++ {
		d := m.TrafficDelta(pos)
		if d <= prev {
			t.Errorf("expected traffic cost to grow with position but found %f at P%d after %f", d, pos, prev)
		}
		prev = d
	}
}
