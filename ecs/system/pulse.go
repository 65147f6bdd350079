package system

import (
	"fmt"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

// BeatPulseSystem drives every BeatPulse component and writes the resulting
// scale into the entity's transform. Gated pulses follow the first attack
// module in the world; when its gate reopens after a cycle ended, the pulse
// resumes from the base scale.
type BeatPulseSystem struct {
	clock Clock
}

func NewBeatPulseSystem(clock Clock) *BeatPulseSystem {
	return &BeatPulseSystem{clock: clock}
}

func (s *BeatPulseSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := 0.0
	if s.clock != nil {
		dt = s.clock.Delta()
	}

	gate := false
	if ent, ok := w.First(component.AttackModuleComponent.Kind()); ok {
		if mod, ok := ecs.Get(w, ent, component.AttackModuleComponent.Kind()); ok {
			gate = mod.ShouldAnimate()
		}
	}

	ecs.ForEach2(w, component.BeatPulseComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, bp *component.BeatPulse, t *component.Transform) {
			if bp.Pulse == nil {
				return
			}

			open := true
			if bp.FollowGate {
				open = gate
			}

			if !bp.Started() {
				if bp.FollowGate && !open {
					bp.GateRose(open)
					return
				}
				if err := bp.Pulse.Start(t.Scale()); err != nil {
					w.Fail(fmt.Errorf("pulse: entity=%s: %w", e, err))
					return
				}
				bp.MarkStarted()
				bp.GateRose(open)
			} else if bp.GateRose(open) && !bp.Pulse.Running() {
				bp.Pulse.Resume()
			}

			t.SetScale(bp.Pulse.Tick(dt, open))
		})
}
