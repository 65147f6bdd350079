package entity

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/prefabs"
	"github.com/milk9111/beatspawner/rhythm"
)

// SpawnerOptions overrides prefab settings at build time.
type SpawnerOptions struct {
	// Mode replaces the prefab's fire_mode when set.
	Mode *rhythm.FireMode
	Rand *rand.Rand
}

// BuildSpawner creates the enemy entity: a transform, a scripted attack
// module that selects patterns, and a rhythm scheduler firing into a bullet
// sink. Invalid emission or fire mode settings are returned as errors.
func BuildSpawner(w *ecs.World, spec *prefabs.SpawnerSpec, attack *prefabs.AttackSpec, lib *rhythm.Library, opts SpawnerOptions) (ecs.Entity, error) {
	if w == nil || spec == nil || lib == nil {
		return 0, fmt.Errorf("entity: build spawner: nil world, spec or library")
	}

	cfg, err := spec.EmissionConfig()
	if err != nil {
		return 0, err
	}
	mode, err := spec.Mode()
	if err != nil {
		return 0, err
	}
	if opts.Mode != nil {
		mode = *opts.Mode
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	policy, err := rhythm.NewEmissionPolicy(cfg, rng)
	if err != nil {
		return 0, err
	}

	e := ecs.CreateEntity(w)
	cleanup := func(err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, err
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), transformFromSpec(spec.Transform)); err != nil {
		return cleanup(err)
	}

	mod := &component.AttackModule{PatternIndex: 1}
	if attack != nil {
		mod.Name = strings.TrimSpace(attack.Name)
		mod.ScriptPath = strings.TrimSpace(attack.Script)
	}
	if err := ecs.Add(w, e, component.AttackModuleComponent.Kind(), mod); err != nil {
		return cleanup(err)
	}

	sp := &component.Spawner{Name: spec.Name, Library: lib}
	sink := NewBulletSink(w, e, spec, rng)
	sched, err := rhythm.NewScheduler(lib, mod, policy, sink,
		rhythm.WithFireMode(mode),
		rhythm.WithOnFire(func(ev rhythm.FireEvent) {
			sp.Fired++
			if ev.Terminal {
				sp.Terminals++
			}
			w.Events().Push(ecs.Event{Type: ecs.EventFire, Data: ev})
		}),
	)
	if err != nil {
		return cleanup(err)
	}
	sp.Scheduler = sched

	if err := ecs.Add(w, e, component.SpawnerComponent.Kind(), sp); err != nil {
		return cleanup(err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
		return cleanup(err)
	}

	return e, nil
}

func transformFromSpec(spec prefabs.TransformSpec) *component.Transform {
	t := &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	return t
}
