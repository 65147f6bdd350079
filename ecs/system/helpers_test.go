package system

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/ecs/entity"
	"github.com/milk9111/beatspawner/prefabs"
	"github.com/milk9111/beatspawner/rhythm"
)

func testSpawnerSpec() *prefabs.SpawnerSpec {
	jitter := 0.0
	return &prefabs.SpawnerSpec{
		Name:           "boss",
		Transform:      prefabs.TransformSpec{X: 400, Y: 300},
		MinAngle:       170,
		MaxAngle:       210,
		RotationJitter: &jitter,
		Variants: []prefabs.VariantSpec{
			{Name: "quarter", Radius: 8, Speed: 200},
			{Name: "eighth", Radius: 6, Speed: 300},
			{Name: "finale", Radius: 20, Speed: 100},
		},
		Bullet: prefabs.BulletSpec{TTL: 5, Mass: 1},
	}
}

func buildTestSpawner(t *testing.T, w *ecs.World, attack *prefabs.AttackSpec, tracks ...*rhythm.Track) (ecs.Entity, *component.Spawner, *component.AttackModule) {
	t.Helper()
	e, err := entity.BuildSpawner(w, testSpawnerSpec(), attack, rhythm.NewLibrary(tracks...), entity.SpawnerOptions{
		Rand: rand.New(rand.NewPCG(7, 11)),
	})
	if err != nil {
		t.Fatalf("BuildSpawner: %v", err)
	}
	sp, ok := ecs.Get(w, e, component.SpawnerComponent.Kind())
	if !ok {
		t.Fatalf("expected spawner component")
	}
	mod, ok := ecs.Get(w, e, component.AttackModuleComponent.Kind())
	if !ok {
		t.Fatalf("expected attack module component")
	}
	return e, sp, mod
}

func bullets(w *ecs.World) []*component.Bullet {
	var out []*component.Bullet
	ecs.ForEach(w, component.BulletComponent.Kind(), func(_ ecs.Entity, b *component.Bullet) {
		out = append(out, b)
	})
	return out
}
