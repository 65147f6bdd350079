package system

import (
	"testing"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

func TestTTLSystemDestroysExpired(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: 0.25}); err != nil {
		t.Fatalf("add ttl: %v", err)
	}

	sys := NewTTLSystem(FixedStep(0.125))
	sys.Update(w)
	if !w.IsAlive(e) {
		t.Fatalf("expected entity alive after first frame")
	}
	sys.Update(w)
	if w.IsAlive(e) {
		t.Fatalf("expected entity destroyed")
	}
}

func TestTTLSystemZeroDeltaKeepsEntity(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: 1})

	sys := NewTTLSystem(&StepClock{})
	for range 10 {
		sys.Update(w)
	}
	if !w.IsAlive(e) {
		t.Fatalf("expected entity alive with zero delta")
	}
}
