package system

// Clock supplies the seconds elapsed since the previous frame. The game loop
// owns it; an audio-aligned clock can replace the fixed step.
type Clock interface {
	Delta() float64
}

// FixedStep advances by the same delta every frame.
type FixedStep float64

func (f FixedStep) Delta() float64 {
	return float64(f)
}

// StepClock is a settable clock, advanced explicitly by its owner.
type StepClock struct {
	DT float64
}

func (c *StepClock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.DT
}
