package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/prefabs"
	"github.com/milk9111/beatspawner/rhythm"
	"golang.org/x/image/colornames"
)

var defaultBulletColor = colornames.White

const (
	defaultBulletRadius = 8.0
	defaultBulletSpeed  = 240.0
	defaultBulletTTL    = 6.0
)

// BuildBullet instantiates one spawn request. Regular bullets pick a heading
// uniformly in the request's angle range; terminal bullets fly straight down
// the middle of it.
func BuildBullet(w *ecs.World, owner ecs.Entity, spec *prefabs.SpawnerSpec, req rhythm.SpawnRequest, rng *rand.Rand) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("entity: build bullet: nil world or spec")
	}
	variant, ok := spec.Variant(req.VariantID)
	if !ok {
		return 0, fmt.Errorf("entity: build bullet: %w: variant %d", rhythm.ErrInvalidConfig, req.VariantID)
	}

	heading := bulletHeading(req, rng)
	radius := variant.Radius
	if radius <= 0 {
		radius = defaultBulletRadius
	}
	speed := variant.Speed
	if speed <= 0 {
		speed = defaultBulletSpeed
	}
	ttl := spec.Bullet.TTL
	if ttl <= 0 {
		ttl = defaultBulletTTL
	}
	mass := spec.Bullet.Mass
	if mass <= 0 {
		mass = 1
	}

	e := ecs.CreateEntity(w)
	fail := func(err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("entity: build bullet: %w", err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        req.Position.X,
		Y:        req.Position.Y,
		ScaleX:   1,
		ScaleY:   1,
		Rotation: req.Rotation,
	}); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Color:  variant.Color.RGBAOr(defaultBulletColor),
		Radius: radius,
	}); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.BulletComponent.Kind(), &component.Bullet{
		Spawner:   uint64(owner),
		Variant:   req.Variant,
		VariantID: req.VariantID,
		Terminal:  req.Terminal,
		MinAngle:  req.AngleRange.Min,
		MaxAngle:  req.AngleRange.Max,
		Heading:   heading,
		Speed:     speed,
		Spin:      variant.Spin,
	}); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius: radius,
		Mass:   mass,
	}); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Seconds: ttl}); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
		return fail(err)
	}

	if spec.Bullet.Pulse != nil {
		if err := addBeatPulse(w, e, *spec.Bullet.Pulse); err != nil {
			return fail(err)
		}
	}

	return e, nil
}

func bulletHeading(req rhythm.SpawnRequest, rng *rand.Rand) float64 {
	lo, hi := req.AngleRange.Min, req.AngleRange.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	if req.Terminal || rng == nil || lo == hi {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}

func addBeatPulse(w *ecs.World, e ecs.Entity, spec prefabs.PulseSpec) error {
	cfg, err := spec.PulseConfig()
	if err != nil {
		return err
	}
	pulse, err := rhythm.NewBeatPulse(cfg)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.BeatPulseComponent.Kind(), &component.BeatPulse{
		Pulse:      pulse,
		FollowGate: spec.FollowGate,
	})
}
