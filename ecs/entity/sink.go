package entity

import (
	"log"
	"math/rand/v2"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/prefabs"
	"github.com/milk9111/beatspawner/rhythm"
)

// BulletSink turns a spawner's requests into bullet entities. Clear destroys
// only the bullets this sink's spawner fired.
type BulletSink struct {
	world *ecs.World
	owner ecs.Entity
	spec  *prefabs.SpawnerSpec
	rng   *rand.Rand
}

func NewBulletSink(w *ecs.World, owner ecs.Entity, spec *prefabs.SpawnerSpec, rng *rand.Rand) *BulletSink {
	return &BulletSink{world: w, owner: owner, spec: spec, rng: rng}
}

func (s *BulletSink) Spawn(req rhythm.SpawnRequest) {
	if _, err := BuildBullet(s.world, s.owner, s.spec, req, s.rng); err != nil {
		log.Printf("entity: spawner %s: %v", s.owner, err)
	}
}

func (s *BulletSink) Clear() {
	var doomed []ecs.Entity
	ecs.ForEach(s.world, component.BulletComponent.Kind(), func(e ecs.Entity, b *component.Bullet) {
		if b.Spawner == uint64(s.owner) {
			doomed = append(doomed, e)
		}
	})
	for _, e := range doomed {
		ecs.DestroyEntity(s.world, e)
	}
}
