package component

import "github.com/milk9111/beatspawner/rhythm"

// BeatPulse scales its entity's transform on every beat. FollowGate ties the
// pulse to the attack module's beat gate; otherwise it pulses while alive.
type BeatPulse struct {
	Pulse      *rhythm.BeatPulse
	FollowGate bool

	started  bool
	lastGate bool
}

func (b *BeatPulse) Started() bool {
	return b.started
}

// MarkStarted records that Pulse.Start captured the base scale.
func (b *BeatPulse) MarkStarted() {
	b.started = true
}

// GateRose reports a closed-to-open transition of gate since the last call.
func (b *BeatPulse) GateRose(gate bool) bool {
	rose := gate && !b.lastGate
	b.lastGate = gate
	return rose
}

var BeatPulseComponent = NewComponent[BeatPulse]()
