package system

import (
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/rhythm"
)

// TrackReloadSystem applies queued track file changes to a library. Changes
// wait while any spawner is mid-attack or about to start, so an attack cycle
// always runs on the timestamps it started with.
type TrackReloadSystem struct {
	library *rhythm.Library
	pending []string
}

func NewTrackReloadSystem(lib *rhythm.Library) *TrackReloadSystem {
	return &TrackReloadSystem{library: lib}
}

// Queue records a changed track file. A path queued twice is loaded once.
func (s *TrackReloadSystem) Queue(path string) {
	for _, p := range s.pending {
		if p == path {
			return
		}
	}
	s.pending = append(s.pending, path)
}

// Pending returns the number of queued paths.
func (s *TrackReloadSystem) Pending() int {
	return len(s.pending)
}

func (s *TrackReloadSystem) Update(w *ecs.World) {
	if w == nil || s.library == nil || len(s.pending) == 0 {
		return
	}
	if SpawnersRunning(w) || StartPending(w) {
		return
	}

	paths := s.pending
	s.pending = nil
	for _, p := range paths {
		// missing files keep the loaded copy
		if rhythm.LoadInto(s.library, p) {
			w.Events().Push(ecs.Event{Type: ecs.EventTrackLoaded, Data: rhythm.TrackID(p)})
		}
	}
}
