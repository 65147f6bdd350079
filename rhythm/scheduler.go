package rhythm

import "fmt"

// FireMode controls how many due events a single tick may fire.
type FireMode int

const (
	// FireAll fires every due event in the tick, in order. A frame stall
	// never drops events; several may fire in the same tick.
	FireAll FireMode = iota
	// FireSingle fires at most one event per tick. Due events left over are
	// fired on following ticks, one per tick.
	FireSingle
)

// FireEvent describes one firing, reported to the OnFire hook.
type FireEvent struct {
	TrackID   string
	Index     int
	Timestamp float64
	Elapsed   float64
	Terminal  bool
	Request   SpawnRequest
}

type SchedulerOption func(*Scheduler)

func WithFireMode(mode FireMode) SchedulerOption {
	return func(s *Scheduler) { s.mode = mode }
}

// WithOnFire registers a hook called after each request reaches the sink.
func WithOnFire(fn func(FireEvent)) SchedulerOption {
	return func(s *Scheduler) { s.onFire = fn }
}

// Scheduler fires the timestamps of the active track against an advancing
// clock. It is driven by Tick once per frame and never blocks.
//
// Calling Start while running restarts timing from zero.
type Scheduler struct {
	lib      *Library
	selector PatternSelector
	policy   *EmissionPolicy
	sink     SpawnSink

	mode   FireMode
	onFire func(FireEvent)
	origin Vec2

	running       bool
	cursor        int
	elapsed       float64
	terminalFired bool
}

func NewScheduler(lib *Library, selector PatternSelector, policy *EmissionPolicy, sink SpawnSink, opts ...SchedulerOption) (*Scheduler, error) {
	switch {
	case lib == nil:
		return nil, fmt.Errorf("%w: scheduler needs a track library", ErrInvalidConfig)
	case selector == nil:
		return nil, fmt.Errorf("%w: scheduler needs a pattern selector", ErrInvalidConfig)
	case policy == nil:
		return nil, fmt.Errorf("%w: scheduler needs an emission policy", ErrInvalidConfig)
	case sink == nil:
		return nil, fmt.Errorf("%w: scheduler needs a spawn sink", ErrInvalidConfig)
	}

	s := &Scheduler{lib: lib, selector: selector, policy: policy, sink: sink}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins an attack cycle.
func (s *Scheduler) Start() error {
	if s.lib.Len() == 0 {
		return ErrNoTracks
	}
	s.running = true
	s.cursor = 0
	s.elapsed = 0
	s.terminalFired = false
	return nil
}

// Stop ends the attack cycle and resets timing. With destroySpawned the sink
// clears every live bullet; requests already handed to the sink are not
// retracted otherwise.
func (s *Scheduler) Stop(destroySpawned bool) {
	s.running = false
	s.cursor = 0
	s.elapsed = 0
	s.terminalFired = false

	if destroySpawned {
		s.sink.Clear()
	}
}

// Tick advances the clock by dt seconds and fires every event that came due.
// An out-of-range active pattern index stops the scheduler and returns an
// error wrapping ErrTrackIndexOutOfRange; callers should treat it as fatal.
func (s *Scheduler) Tick(dt float64) error {
	if !s.running {
		return nil
	}
	if dt > 0 {
		s.elapsed += dt
	}

	index := s.selector.CurrentPatternIndex()
	track, err := s.lib.Track(index)
	if err != nil {
		s.Stop(false)
		return fmt.Errorf("scheduler tick: pattern %d: %w", index, err)
	}

	n := track.Len()
	for s.cursor < n && s.elapsed >= track.At(s.cursor) {
		s.fire(track, s.cursor, track.At(s.cursor), false)
		s.cursor++
		if s.mode == FireSingle {
			break
		}
	}

	if s.cursor == n && !s.terminalFired && s.selector.IsTerminalPhaseActive() {
		s.terminalFired = true
		s.fire(track, n, s.elapsed, true)
	}

	// The cursor decides exhaustion, not the clock.
	if s.cursor >= n {
		s.Stop(false)
	}
	return nil
}

func (s *Scheduler) fire(track *Track, index int, at float64, terminal bool) {
	var req SpawnRequest
	if terminal {
		req = s.policy.Terminal(s.origin)
	} else {
		req = s.policy.Regular(s.origin)
	}
	s.sink.Spawn(req)

	if s.onFire != nil {
		s.onFire(FireEvent{
			TrackID:   track.ID(),
			Index:     index,
			Timestamp: at,
			Elapsed:   s.elapsed,
			Terminal:  terminal,
			Request:   req,
		})
	}
}

// SetOrigin sets the spawn position used for following firings.
func (s *Scheduler) SetOrigin(p Vec2) {
	s.origin = p
}

func (s *Scheduler) Origin() Vec2 {
	return s.origin
}

func (s *Scheduler) Running() bool {
	return s.running
}

func (s *Scheduler) Cursor() int {
	return s.cursor
}

func (s *Scheduler) Elapsed() float64 {
	return s.elapsed
}

func (s *Scheduler) Mode() FireMode {
	return s.mode
}
