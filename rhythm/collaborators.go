package rhythm

// Vec2 is a world-space position.
type Vec2 struct {
	X float64
	Y float64
}

// AngleRange bounds the firing direction of a spawned bullet, in degrees.
// The scheduler passes it through without interpreting it.
type AngleRange struct {
	Min float64
	Max float64
}

// SpawnRequest describes one bullet to instantiate.
type SpawnRequest struct {
	VariantID  int
	Variant    string
	Terminal   bool
	Position   Vec2
	Rotation   float64
	AngleRange AngleRange
}

// PatternSelector reports which attack pattern is active. The scheduler only
// reads it; whoever mutates it does so between ticks.
type PatternSelector interface {
	// CurrentPatternIndex is 1-based.
	CurrentPatternIndex() int
	IsTerminalPhaseActive() bool
}

// SpawnSink instantiates bullets. Clear removes every live bullet.
type SpawnSink interface {
	Spawn(req SpawnRequest)
	Clear()
}

// Gate reports whether a beat pulse should keep cycling.
type Gate interface {
	ShouldAnimate() bool
}

// FixedSelector is a PatternSelector with settable fields.
type FixedSelector struct {
	Index    int
	Terminal bool
}

func (s *FixedSelector) CurrentPatternIndex() int    { return s.Index }
func (s *FixedSelector) IsTerminalPhaseActive() bool { return s.Terminal }

// GateFunc adapts a function to Gate.
type GateFunc func() bool

func (f GateFunc) ShouldAnimate() bool { return f() }
