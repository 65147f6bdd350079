package system

import (
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

// TTLSystem counts TTL components down by the frame delta and destroys
// entities whose time has run out.
type TTLSystem struct {
	clock Clock
}

func NewTTLSystem(clock Clock) *TTLSystem {
	return &TTLSystem{clock: clock}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := 0.0
	if s.clock != nil {
		dt = s.clock.Delta()
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if dt > 0 {
			ttl.Seconds -= dt
		}
		if ttl.Seconds > 0 {
			return
		}

		// TTL expired: destroy the entity
		ecs.DestroyEntity(w, e)
	})
}
