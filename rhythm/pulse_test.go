package rhythm

import (
	"errors"
	"math"
	"testing"
)

const scaleEpsilon = 1e-9

func nearScale(a, b Scale) bool {
	return math.Abs(a.X-b.X) < scaleEpsilon && math.Abs(a.Y-b.Y) < scaleEpsilon
}

func TestPulseConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  PulseConfig
		want error
	}{
		{"ok", PulseConfig{BPM: 150, Increment: 0.1}, nil},
		{"zero_bpm", PulseConfig{BPM: 0}, ErrInvalidBPM},
		{"negative_bpm", PulseConfig{BPM: -10}, ErrInvalidBPM},
		{"negative_increment", PulseConfig{BPM: 120, Increment: -0.1}, ErrInvalidConfig},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if c.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if c.want != nil && !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if _, err := NewBeatPulse(PulseConfig{BPM: 0}); !errors.Is(err, ErrInvalidBPM) {
		t.Fatalf("NewBeatPulse should reject zero BPM, got %v", err)
	}
}

func TestBeatPulseReturnsToBaseAfterOneInterval(t *testing.T) {
	for _, up := range []bool{true, false} {
		p, err := NewBeatPulse(PulseConfig{BPM: 150, Increment: 0.1, ScaleUp: up})
		if err != nil {
			t.Fatal(err)
		}
		base := Scale{X: 1, Y: 2}
		if err := p.Start(base); err != nil {
			t.Fatal(err)
		}
		if math.Abs(p.Interval()-0.4) > 1e-12 {
			t.Fatalf("expected 0.4s beat interval at 150 BPM, got %v", p.Interval())
		}

		want := Scale{X: 1.1, Y: 2.1}
		if !up {
			want = Scale{X: 0.9, Y: 1.9}
		}
		got := p.Tick(0.05, true)
		if !nearScale(got, want) || p.Phase() != PulseSnapped {
			t.Fatalf("scaleUp=%v: expected snap to %+v, got %+v (%v)", up, want, got, p.Phase())
		}

		for i := 0; i < 7; i++ {
			got = p.Tick(0.05, true)
		}
		if !nearScale(got, base) {
			t.Fatalf("scaleUp=%v: expected base %+v after one interval, got %+v", up, base, got)
		}
		if p.Base() != base {
			t.Fatalf("base scale must not change")
		}
	}
}

func TestBeatPulseInterpolatesTowardBase(t *testing.T) {
	p, err := NewBeatPulse(PulseConfig{BPM: 60, Increment: 1, ScaleUp: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(Scale{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	p.Tick(0.25, true) // snap to 2, 0.25s counted
	got := p.Tick(0.25, true)
	if !nearScale(got, Scale{X: 1.5, Y: 1.5}) || p.Phase() != PulseReturning {
		t.Fatalf("expected halfway scale 1.5, got %+v (%v)", got, p.Phase())
	}
}

func TestBeatPulseOnePulsePerInterval(t *testing.T) {
	p, err := NewBeatPulse(PulseConfig{BPM: 120, Increment: 0.2, ScaleUp: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(Scale{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	// 0.5s per beat, 5 seconds at 100 ticks per second.
	for i := 0; i < 500; i++ {
		p.Tick(0.01, true)
	}
	if p.Beats() < 9 || p.Beats() > 10 {
		t.Fatalf("expected about 10 beats in 5s, got %d", p.Beats())
	}
}

func TestBeatPulseGateClosedFinishesCurrentReturn(t *testing.T) {
	p, err := NewBeatPulse(PulseConfig{BPM: 120, Increment: 0.1, ScaleUp: true})
	if err != nil {
		t.Fatal(err)
	}
	base := Scale{X: 1, Y: 1}
	if err := p.Start(base); err != nil {
		t.Fatal(err)
	}
	p.Tick(0.125, true)
	p.Tick(0.125, false)
	if !p.Running() || p.Phase() != PulseReturning {
		t.Fatalf("closing the gate mid-beat should not interrupt the return")
	}
	p.Tick(0.125, false)
	got := p.Tick(0.125, false)
	if got != base || p.Phase() != PulseIdle {
		t.Fatalf("expected return to finish on base, got %+v (%v)", got, p.Phase())
	}
	p.Tick(0.125, false)
	if p.Running() {
		t.Fatalf("pulse should stop at the beat boundary once the gate is closed")
	}
	beats := p.Beats()
	p.Tick(0.125, true)
	if p.Beats() != beats {
		t.Fatalf("a stopped pulse must not snap again without Resume")
	}

	p.Resume()
	p.Tick(0.125, true)
	if p.Beats() != beats+1 || p.Base() != base {
		t.Fatalf("Resume should restart pulses around the original base")
	}
}

func TestBeatPulseGateClosedAtStart(t *testing.T) {
	p, err := NewBeatPulse(PulseConfig{BPM: 100, Increment: 0.5, ScaleUp: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(Scale{X: 3, Y: 3}); err != nil {
		t.Fatal(err)
	}
	if got := p.Tick(0.1, false); got != (Scale{X: 3, Y: 3}) {
		t.Fatalf("closed gate should leave scale untouched, got %+v", got)
	}
	if p.Running() || p.Beats() != 0 {
		t.Fatalf("closed gate should end the cycle without pulsing")
	}
}

func TestBeatPulseStop(t *testing.T) {
	p, err := NewBeatPulse(PulseConfig{BPM: 60, Increment: 1, ScaleUp: true})
	if err != nil {
		t.Fatal(err)
	}
	base := Scale{X: 1, Y: 1}
	if err := p.Start(base); err != nil {
		t.Fatal(err)
	}
	p.Tick(0.1, true)
	p.Tick(0.1, true)

	mid := p.Scale()
	p.Stop(false)
	if p.Scale() != mid || p.Running() {
		t.Fatalf("Stop(false) should freeze the current scale")
	}

	p.Resume()
	p.Tick(0.1, true)
	p.Stop(true)
	if p.Scale() != base {
		t.Fatalf("Stop(true) should restore base, got %+v", p.Scale())
	}
}
