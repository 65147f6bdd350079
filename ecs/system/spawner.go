package system

import (
	"fmt"
	"log"

	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
)

// SpawnerSystem applies start/stop commands and ticks every spawner's
// scheduler once per frame. Scheduler errors are configuration errors: they
// are latched on the world and end the game loop.
type SpawnerSystem struct {
	clock Clock
}

func NewSpawnerSystem(clock Clock) *SpawnerSystem {
	return &SpawnerSystem{clock: clock}
}

// StartSpawners queues a start command. An empty target addresses every
// spawner.
func StartSpawners(w *ecs.World, target string) {
	queueCommand(w, &component.SpawnerCommand{Target: target, Start: true})
}

// StopSpawners queues a stop command.
func StopSpawners(w *ecs.World, target string, destroySpawned bool) {
	queueCommand(w, &component.SpawnerCommand{Target: target, Stop: true, DestroySpawned: destroySpawned})
}

// StartPending reports whether a start command is waiting for the next
// spawner update.
func StartPending(w *ecs.World) bool {
	pending := false
	ecs.ForEach(w, component.SpawnerCommandComponent.Kind(), func(_ ecs.Entity, cmd *component.SpawnerCommand) {
		if cmd.Start {
			pending = true
		}
	})
	return pending
}

// SpawnersRunning reports whether any spawner is mid-attack.
func SpawnersRunning(w *ecs.World) bool {
	running := false
	ecs.ForEach(w, component.SpawnerComponent.Kind(), func(_ ecs.Entity, sp *component.Spawner) {
		if sp.Scheduler != nil && sp.Scheduler.Running() {
			running = true
		}
	})
	return running
}

func queueCommand(w *ecs.World, cmd *component.SpawnerCommand) {
	if w == nil || cmd == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SpawnerCommandComponent.Kind(), cmd)
}

func (s *SpawnerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	commands := s.consumeCommands(w)
	dt := 0.0
	if s.clock != nil {
		dt = s.clock.Delta()
	}

	ecs.ForEach(w, component.SpawnerComponent.Kind(), func(e ecs.Entity, sp *component.Spawner) {
		if sp.Scheduler == nil || w.Err() != nil {
			return
		}

		for _, cmd := range commands {
			if cmd.Target != "" && cmd.Target != sp.Name {
				continue
			}
			if cmd.Stop {
				sp.Scheduler.Stop(cmd.DestroySpawned)
				w.Events().Push(ecs.Event{Type: ecs.EventSpawnerStop, Data: sp.Name})
			}
			if cmd.Start {
				if err := sp.Scheduler.Start(); err != nil {
					w.Fail(fmt.Errorf("spawner %q: start: %w", sp.Name, err))
					return
				}
				sp.Cycles++
				w.Events().Push(ecs.Event{Type: ecs.EventSpawnerStart, Data: sp.Name})
			}
		}

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			sp.Scheduler.SetOrigin(t.Position())
		}

		wasRunning := sp.Scheduler.Running()
		if err := sp.Scheduler.Tick(dt); err != nil {
			log.Printf("spawner: %s: %v", sp.Name, err)
			w.Fail(fmt.Errorf("spawner %q: %w", sp.Name, err))
			return
		}
		if wasRunning && !sp.Scheduler.Running() {
			w.Events().Push(ecs.Event{Type: ecs.EventSpawnerStop, Data: sp.Name})
		}
	})
}

func (s *SpawnerSystem) consumeCommands(w *ecs.World) []component.SpawnerCommand {
	var out []component.SpawnerCommand
	var ents []ecs.Entity
	ecs.ForEach(w, component.SpawnerCommandComponent.Kind(), func(ent ecs.Entity, cmd *component.SpawnerCommand) {
		ents = append(ents, ent)
		out = append(out, *cmd)
	})
	for _, ent := range ents {
		ecs.DestroyEntity(w, ent)
	}
	return out
}
