package component

import "github.com/milk9111/beatspawner/rhythm"

// Spawner holds a rhythm scheduler and the spawner's running totals. The
// scheduler is the only owner of its timing state; systems drive it through
// Start, Stop and Tick.
type Spawner struct {
	Name      string
	Scheduler *rhythm.Scheduler
	Library   *rhythm.Library

	Fired     int
	Terminals int
	Cycles    int
}

var SpawnerComponent = NewComponent[Spawner]()

// SpawnerCommand is a one-shot request to start or stop spawners. An empty
// Target addresses every spawner.
//
// The spawner system consumes every pending command at the start of its
// update, in creation order.
type SpawnerCommand struct {
	Target         string
	Start          bool
	Stop           bool
	DestroySpawned bool
}

var SpawnerCommandComponent = NewComponent[SpawnerCommand]()
