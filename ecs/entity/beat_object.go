package entity

import (
	"fmt"

	"github.com/milk9111/beatspawner/assets"
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/prefabs"
	"golang.org/x/image/colornames"
)

var defaultBeatObjectColor = colornames.Mediumpurple

// BuildBeatObject creates a scene object that pulses on the beat.
func BuildBeatObject(w *ecs.World, spec *prefabs.BeatObjectSpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("entity: build beat object: nil world or spec")
	}

	e := ecs.CreateEntity(w)
	fail := func(err error) (ecs.Entity, error) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("entity: build beat object %q: %w", spec.Name, err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), transformFromSpec(spec.Transform)); err != nil {
		return fail(err)
	}

	sprite := component.Sprite{
		Color:   spec.Sprite.Color.RGBAOr(defaultBeatObjectColor),
		Radius:  spec.Sprite.Radius,
		OriginX: spec.Sprite.OriginX,
		OriginY: spec.Sprite.OriginY,
		Outline: spec.Sprite.Outline,
	}
	if spec.Sprite.Image != "" {
		img, err := assets.LoadImage(spec.Sprite.Image)
		if err != nil {
			return fail(fmt.Errorf("load image %q: %w", spec.Sprite.Image, err))
		}
		sprite.Image = img
		if sprite.OriginX == 0 && sprite.OriginY == 0 {
			b := img.Bounds()
			sprite.OriginX = float64(b.Dx()) / 2
			sprite.OriginY = float64(b.Dy()) / 2
		}
	}
	if err := ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite); err != nil {
		return fail(err)
	}
	if err := ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.RenderLayer.Index}); err != nil {
		return fail(err)
	}
	if err := addBeatPulse(w, e, spec.Pulse); err != nil {
		return fail(err)
	}

	return e, nil
}
