package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/beatspawner/common"
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

const outlineWidth = 3

type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// Draw renders sprites in render-layer order. Sprites without an image are
// drawn as circles of Radius scaled by the transform.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	entities := DrawOrder(w)
	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			continue
		}

		scale := t.Scale()
		if s.Image == nil {
			radius := s.Radius * scale.X
			if radius <= 0 {
				continue
			}
			if s.Outline {
				vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(radius), outlineWidth, s.Color, true)
				continue
			}
			vector.DrawFilledCircle(screen, float32(t.X), float32(t.Y), float32(radius), s.Color, true)
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		op.GeoM.Scale(scale.X, scale.Y)
		op.GeoM.Rotate(common.DegToRad(t.Rotation))
		op.GeoM.Translate(t.X, t.Y)
		screen.DrawImage(s.Image, op)
	}
}

// DrawOrder lists drawable entities sorted by render layer, then entity id.
func DrawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}
