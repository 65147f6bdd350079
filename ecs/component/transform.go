package component

import "github.com/milk9111/beatspawner/rhythm"

// Transform places an entity in world space. Rotation is in degrees.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

// Scale returns the visual scale, treating an unset scale as 1.
func (t *Transform) Scale() rhythm.Scale {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 && sy == 0 {
		sx, sy = 1, 1
	}
	return rhythm.Scale{X: sx, Y: sy}
}

func (t *Transform) SetScale(s rhythm.Scale) {
	t.ScaleX = s.X
	t.ScaleY = s.Y
}

func (t *Transform) Position() rhythm.Vec2 {
	return rhythm.Vec2{X: t.X, Y: t.Y}
}

var TransformComponent = NewComponent[Transform]()
