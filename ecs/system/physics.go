package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/beatspawner/common"
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

const collisionTypeBullet cp.CollisionType = 1

// boundsMargin lets bullets leave the screen fully before they are culled.
const boundsMargin = 64.0

// BulletPhysicsSystem moves bullets through a zero-gravity Chipmunk space.
// Bullets are sensors: they never push each other.
type BulletPhysicsSystem struct {
	clock    Clock
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo

	// Bounds culls bullets outside [0,W]x[0,H] plus a margin. Zero disables.
	BoundsW float64
	BoundsH float64
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewBulletPhysicsSystem(clock Clock) *BulletPhysicsSystem {
	return &BulletPhysicsSystem{
		clock:    clock,
		space:    newBulletSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
		BoundsW:  common.BaseWidth,
		BoundsH:  common.BaseHeight,
	}
}

func newBulletSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *BulletPhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Bodies returns the number of bodies in the space.
func (ps *BulletPhysicsSystem) Bodies() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

func (ps *BulletPhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newBulletSpace()
	}
	if ps.entities == nil {
		ps.entities = make(map[ecs.Entity]*bodyInfo)
	}

	ps.cleanupEntities(w)
	ps.syncEntities(w)

	dt := 0.0
	if ps.clock != nil {
		dt = ps.clock.Delta()
	}
	if dt > 0 {
		ps.space.Step(dt)
	}

	ps.syncTransforms(w)
	ps.cullOutOfBounds(w)
}

func (ps *BulletPhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach3(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), component.BulletComponent.Kind(),
		func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform, bullet *component.Bullet) {
			if _, ok := ps.entities[e]; ok {
				return
			}

			radius := bodyComp.Radius
			if radius <= 0 {
				radius = 8
			}
			mass := bodyComp.Mass
			if mass <= 0 {
				mass = 1
			}

			body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
			body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
			body.SetAngle(common.DegToRad(transform.Rotation))

			hx, hy := common.Heading(bullet.Heading)
			bodyComp.VelX = hx * bullet.Speed
			bodyComp.VelY = hy * bullet.Speed
			body.SetVelocity(bodyComp.VelX, bodyComp.VelY)
			body.SetAngularVelocity(common.DegToRad(bullet.Spin))

			shape := cp.NewCircle(body, radius, cp.Vector{})
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeBullet)
			shape.SetFriction(bodyComp.Friction)

			ps.space.AddBody(body)
			ps.space.AddShape(shape)

			bodyComp.Body = body
			bodyComp.Shape = shape
			ps.entities[e] = &bodyInfo{body: body, shape: shape}
		})
}

func (ps *BulletPhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
			if bodyComp.Body == nil {
				return
			}
			pos := bodyComp.Body.Position()
			transform.X = pos.X
			transform.Y = pos.Y
			transform.Rotation = common.RadToDeg(bodyComp.Body.Angle())
		})
}

func (ps *BulletPhysicsSystem) cullOutOfBounds(w *ecs.World) {
	if ps.BoundsW <= 0 || ps.BoundsH <= 0 {
		return
	}
	var doomed []ecs.Entity
	ecs.ForEach2(w, component.BulletComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, _ *component.Bullet, t *component.Transform) {
			if t.X < -boundsMargin || t.Y < -boundsMargin || t.X > ps.BoundsW+boundsMargin || t.Y > ps.BoundsH+boundsMargin {
				doomed = append(doomed, e)
			}
		})
	for _, e := range doomed {
		ps.removeBody(e)
		ecs.DestroyEntity(w, e)
	}
}

func (ps *BulletPhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeBody(e)
	}
}

func (ps *BulletPhysicsSystem) removeBody(e ecs.Entity) {
	info, ok := ps.entities[e]
	if !ok {
		return
	}
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}
