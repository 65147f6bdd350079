package component

// Bullet marks an entity spawned by a rhythm spawner. Heading is the firing
// direction in degrees, picked within [MinAngle, MaxAngle] at spawn time.
type Bullet struct {
	Spawner   uint64
	Variant   string
	VariantID int
	Terminal  bool
	MinAngle  float64
	MaxAngle  float64
	Heading   float64
	Speed     float64
	Spin      float64
}

var BulletComponent = NewComponent[Bullet]()
