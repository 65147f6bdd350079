package component

// AttackModule is the enemy's attack state. The attack script writes it and
// the spawner reads it as its pattern selector; BeatGate also gates beat
// pulses.
type AttackModule struct {
	Name       string
	ScriptPath string

	PatternIndex int
	Active       bool
	BeatGate     bool
	Phase        string
	Cycle        int
	Elapsed      float64
}

// CurrentPatternIndex is 1-based.
func (a *AttackModule) CurrentPatternIndex() int {
	return a.PatternIndex
}

func (a *AttackModule) IsTerminalPhaseActive() bool {
	return a.Active
}

func (a *AttackModule) ShouldAnimate() bool {
	return a.BeatGate
}

var AttackModuleComponent = NewComponent[AttackModule]()
