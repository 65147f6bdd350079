package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws an entity as an image or, when Image is nil, a filled circle
// of Radius scaled by the transform.
type Sprite struct {
	Image   *ebiten.Image
	Color   color.RGBA
	Radius  float64
	OriginX float64
	OriginY float64
	Outline bool
}

var SpriteComponent = NewComponent[Sprite]()
