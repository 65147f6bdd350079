package rhythm

import "fmt"

// Scale is a 2D visual scale.
type Scale struct {
	X float64
	Y float64
}

func (s Scale) add(d float64) Scale {
	return Scale{X: s.X + d, Y: s.Y + d}
}

func lerpScale(a, b Scale, t float64) Scale {
	return Scale{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// PulsePhase is the beat pulse state.
type PulsePhase int

const (
	PulseIdle PulsePhase = iota
	PulseSnapped
	PulseReturning
)

func (p PulsePhase) String() string {
	switch p {
	case PulseIdle:
		return "idle"
	case PulseSnapped:
		return "snapped"
	case PulseReturning:
		return "returning"
	default:
		return fmt.Sprintf("PulsePhase(%d)", int(p))
	}
}

type PulseConfig struct {
	BPM       float64
	Increment float64
	ScaleUp   bool
}

func (c PulseConfig) Validate() error {
	if c.BPM <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidBPM, c.BPM)
	}
	if c.Increment < 0 {
		return fmt.Errorf("%w: beat size increment %v is negative", ErrInvalidConfig, c.Increment)
	}
	return nil
}

// BeatInterval returns seconds per beat.
func (c PulseConfig) BeatInterval() float64 {
	return 60 / c.BPM
}

// BeatPulse snaps a scale away from its base on every beat and eases it back
// over the beat interval.
//
// The gate is consulted only at beat boundaries, so a return that has started
// always completes and lands exactly on the base scale.
type BeatPulse struct {
	cfg PulseConfig

	interval float64
	base     Scale
	from     Scale
	scale    Scale

	running bool
	phase   PulsePhase
	elapsed float64
	carry   float64
	beats   int
}

func NewBeatPulse(cfg PulseConfig) (*BeatPulse, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BeatPulse{cfg: cfg}, nil
}

// Start captures current as the base scale and enters the beat cycle.
func (b *BeatPulse) Start(current Scale) error {
	if err := b.cfg.Validate(); err != nil {
		return err
	}
	b.interval = b.cfg.BeatInterval()
	b.base = current
	b.scale = current
	b.running = true
	b.phase = PulseIdle
	b.elapsed = 0
	b.carry = 0
	return nil
}

// Resume re-enters the beat cycle after the gate closed, keeping the base
// captured by Start. It does nothing before Start.
func (b *BeatPulse) Resume() {
	if b.interval == 0 || b.running {
		return
	}
	b.running = true
	b.phase = PulseIdle
	b.elapsed = 0
	b.carry = 0
}

// Stop leaves the cycle immediately. With restore the scale snaps to base;
// otherwise it stays wherever the interpolation left it.
func (b *BeatPulse) Stop(restore bool) {
	b.running = false
	b.phase = PulseIdle
	b.elapsed = 0
	b.carry = 0
	if restore {
		b.scale = b.base
	}
}

// Tick advances the pulse by dt seconds and returns the scale to display.
func (b *BeatPulse) Tick(dt float64, gate bool) Scale {
	if !b.running {
		return b.scale
	}
	if dt < 0 {
		dt = 0
	}

	switch b.phase {
	case PulseIdle:
		if !gate {
			b.running = false
			b.carry = 0
			return b.scale
		}
		d := b.cfg.Increment
		if !b.cfg.ScaleUp {
			d = -d
		}
		b.from = b.base.add(d)
		b.scale = b.from
		b.phase = PulseSnapped
		b.elapsed = b.carry + dt
		b.carry = 0
		b.beats++
	case PulseSnapped, PulseReturning:
		b.phase = PulseReturning
		b.elapsed += dt
		t := b.elapsed / b.interval
		if t >= 1 {
			b.scale = b.base
			b.carry = b.elapsed - b.interval
			if b.carry >= b.interval {
				b.carry = 0
			}
			b.elapsed = 0
			b.phase = PulseIdle
			return b.scale
		}
		b.scale = lerpScale(b.from, b.base, t)
	}
	return b.scale
}

func (b *BeatPulse) Scale() Scale {
	return b.scale
}

func (b *BeatPulse) Base() Scale {
	return b.base
}

func (b *BeatPulse) Phase() PulsePhase {
	return b.phase
}

// Interval is the beat interval computed by Start.
func (b *BeatPulse) Interval() float64 {
	return b.interval
}

func (b *BeatPulse) Running() bool {
	return b.running
}

// Beats counts snaps since construction.
func (b *BeatPulse) Beats() int {
	return b.beats
}
