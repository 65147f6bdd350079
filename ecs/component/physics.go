package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for a moving bullet. Body and
// Shape are filled in by the physics system on first sight.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Radius   float64
	Mass     float64
	VelX     float64
	VelY     float64
	Friction float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
