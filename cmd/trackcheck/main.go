package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/milk9111/beatspawner/rhythm"
	"github.com/milk9111/beatspawner/tracks"
)

// countingSink records spawn requests without instantiating anything.
type countingSink struct {
	regular  int
	terminal int
}

func (s *countingSink) Spawn(req rhythm.SpawnRequest) {
	if req.Terminal {
		s.terminal++
		return
	}
	s.regular++
}

func (s *countingSink) Clear() {}

// report summarizes one simulated attack cycle.
type report struct {
	ID       string
	Notes    int
	Fired    int
	Terminal int
	Frames   int
	MaxLag   float64
	Duration float64
}

func main() {
	dir := flag.String("dir", "", "directory of track .json files (default: embedded tracks)")
	fps := flag.Float64("fps", 60, "simulated frames per second")
	single := flag.Bool("single", false, "fire at most one note per frame")
	flag.Parse()

	var fsys fs.FS = tracks.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	lib := rhythm.NewLibrary()
	if rhythm.LoadDirFS(lib, fsys, ".") == 0 {
		log.Fatalf("trackcheck: no tracks loaded")
	}

	mode := rhythm.FireAll
	if *single {
		mode = rhythm.FireSingle
	}

	for i := 1; i <= lib.Len(); i++ {
		r, err := simulate(lib, i, 1 / *fps, mode)
		if err != nil {
			log.Fatalf("trackcheck: %v", err)
		}
		printReport(os.Stdout, r, 1 / *fps)
	}
}

// simulate runs pattern index through a scheduler at a fixed frame delta and
// measures how late each note fired relative to its timestamp.
func simulate(lib *rhythm.Library, index int, dt float64, mode rhythm.FireMode) (report, error) {
	track, err := lib.Track(index)
	if err != nil {
		return report{}, err
	}

	policy, err := rhythm.NewEmissionPolicy(rhythm.EmissionConfig{
		Variants: []string{"regular", "terminal"},
	}, rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		return report{}, err
	}

	r := report{ID: track.ID(), Notes: track.Len()}
	sink := &countingSink{}
	sched, err := rhythm.NewScheduler(lib, &rhythm.FixedSelector{Index: index, Terminal: true}, policy, sink,
		rhythm.WithFireMode(mode),
		rhythm.WithOnFire(func(ev rhythm.FireEvent) {
			if ev.Terminal {
				return
			}
			r.MaxLag = math.Max(r.MaxLag, ev.Elapsed-ev.Timestamp)
		}),
	)
	if err != nil {
		return report{}, err
	}
	if err := sched.Start(); err != nil {
		return report{}, err
	}

	// a stalled single-mode run still ends: one note per frame at most
	limit := track.Len() + 1
	if track.Len() > 0 {
		limit += int(math.Ceil(track.At(track.Len()-1)/dt)) + 1
	}
	for sched.Running() && r.Frames < limit {
		if err := sched.Tick(dt); err != nil {
			return report{}, err
		}
		r.Frames++
	}
	r.Duration = float64(r.Frames) * dt
	r.Fired = sink.regular
	r.Terminal = sink.terminal
	return r, nil
}

func printReport(w io.Writer, r report, dt float64) {
	status := "ok"
	switch {
	case r.Fired != r.Notes:
		status = "MISSED"
	case r.MaxLag > dt:
		status = "LATE"
	}
	fmt.Fprintf(w, "%-12s notes=%-4d fired=%-4d terminal=%d frames=%-5d duration=%.3fs max_lag=%.4fs %s\n",
		r.ID, r.Notes, r.Fired, r.Terminal, r.Frames, r.Duration, r.MaxLag, status)
}
