package system

import (
	"errors"
	"testing"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/rhythm"
)

func TestSpawnerSystemFiresTrackAndStops(t *testing.T) {
	w := ecs.NewWorld()
	_, sp, _ := buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{0.1, 0.25}))

	sys := NewSpawnerSystem(FixedStep(0.1))
	StartSpawners(w, "")
	if !StartPending(w) {
		t.Fatalf("expected pending start command")
	}

	sys.Update(w)
	if StartPending(w) {
		t.Fatalf("expected start command consumed")
	}
	if got := len(bullets(w)); got != 1 {
		t.Fatalf("expected 1 bullet after first frame, got %d", got)
	}
	if !SpawnersRunning(w) {
		t.Fatalf("expected spawner running")
	}

	sys.Update(w)
	sys.Update(w)
	if got := len(bullets(w)); got != 2 {
		t.Fatalf("expected 2 bullets, got %d", got)
	}
	if SpawnersRunning(w) {
		t.Fatalf("expected spawner stopped after last note")
	}
	if sp.Fired != 2 || sp.Terminals != 0 || sp.Cycles != 1 {
		t.Fatalf("unexpected totals: fired=%d terminals=%d cycles=%d", sp.Fired, sp.Terminals, sp.Cycles)
	}

	var starts, stops, fires int
	for _, ev := range w.Events().Drain() {
		switch ev.Type {
		case ecs.EventSpawnerStart:
			starts++
		case ecs.EventSpawnerStop:
			stops++
		case ecs.EventFire:
			fires++
		}
	}
	if starts != 1 || stops != 1 || fires != 2 {
		t.Fatalf("unexpected events: starts=%d stops=%d fires=%d", starts, stops, fires)
	}
	if w.Err() != nil {
		t.Fatalf("unexpected world error: %v", w.Err())
	}
}

func TestSpawnerSystemTerminalBullet(t *testing.T) {
	w := ecs.NewWorld()
	_, sp, mod := buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{0.1}))
	mod.Active = true

	sys := NewSpawnerSystem(FixedStep(0.1))
	StartSpawners(w, "boss")
	sys.Update(w)

	got := bullets(w)
	if len(got) != 2 {
		t.Fatalf("expected regular and terminal bullet, got %d", len(got))
	}
	var terminal *component.Bullet
	for _, b := range got {
		if b.Terminal {
			terminal = b
		}
	}
	if terminal == nil {
		t.Fatalf("expected a terminal bullet")
	}
	if terminal.Variant != "finale" || terminal.VariantID != 2 {
		t.Fatalf("unexpected terminal variant %q (%d)", terminal.Variant, terminal.VariantID)
	}
	if terminal.Heading != 190 {
		t.Fatalf("expected terminal heading 190, got %v", terminal.Heading)
	}
	if sp.Terminals != 1 {
		t.Fatalf("expected 1 terminal, got %d", sp.Terminals)
	}
}

func TestSpawnerSystemSpawnsAtTransform(t *testing.T) {
	w := ecs.NewWorld()
	e, _, _ := buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{0.1}))
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.X, tr.Y = 10, 20

	StartSpawners(w, "")
	NewSpawnerSystem(FixedStep(0.1)).Update(w)

	found := false
	ecs.ForEach2(w, component.BulletComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Bullet, bt *component.Transform) {
		found = true
		if bt.X != 10 || bt.Y != 20 {
			t.Fatalf("expected bullet at (10,20), got (%v,%v)", bt.X, bt.Y)
		}
	})
	if !found {
		t.Fatalf("expected a bullet")
	}
}

func TestSpawnerSystemStopDestroysBullets(t *testing.T) {
	w := ecs.NewWorld()
	buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{0.1, 5}))

	sys := NewSpawnerSystem(FixedStep(0.1))
	StartSpawners(w, "")
	sys.Update(w)
	if got := len(bullets(w)); got != 1 {
		t.Fatalf("expected 1 bullet, got %d", got)
	}

	StopSpawners(w, "", true)
	sys.Update(w)
	if got := len(bullets(w)); got != 0 {
		t.Fatalf("expected bullets cleared, got %d", got)
	}
	if SpawnersRunning(w) {
		t.Fatalf("expected spawner stopped")
	}
}

func TestSpawnerSystemTargetsByName(t *testing.T) {
	w := ecs.NewWorld()
	buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{5}))

	StartSpawners(w, "someone_else")
	NewSpawnerSystem(FixedStep(0.1)).Update(w)
	if SpawnersRunning(w) {
		t.Fatalf("expected command for another spawner to be ignored")
	}
}

func TestSpawnerSystemOutOfRangePatternIsFatal(t *testing.T) {
	w := ecs.NewWorld()
	_, _, mod := buildTestSpawner(t, w, nil, rhythm.NewTrack("a", "a.json", []float64{0.1}))
	mod.PatternIndex = 4

	StartSpawners(w, "")
	NewSpawnerSystem(FixedStep(0.1)).Update(w)

	if !errors.Is(w.Err(), rhythm.ErrTrackIndexOutOfRange) {
		t.Fatalf("expected ErrTrackIndexOutOfRange, got %v", w.Err())
	}
	if SpawnersRunning(w) {
		t.Fatalf("expected spawner stopped")
	}
	if got := len(bullets(w)); got != 0 {
		t.Fatalf("expected no bullets, got %d", got)
	}
}

func TestSpawnerSystemStartWithoutTracksIsFatal(t *testing.T) {
	w := ecs.NewWorld()
	buildTestSpawner(t, w, nil)

	StartSpawners(w, "")
	NewSpawnerSystem(FixedStep(0.1)).Update(w)

	if !errors.Is(w.Err(), rhythm.ErrNoTracks) {
		t.Fatalf("expected ErrNoTracks, got %v", w.Err())
	}
}
