package rhythm

import "fmt"

// Track is one authored sequence of spawn timestamps, in seconds.
// A Track is immutable once built; reloads replace it wholesale.
type Track struct {
	id    string
	path  string
	times []float64
}

// NewTrack copies times so later edits by the caller cannot reach the track.
func NewTrack(id, path string, times []float64) *Track {
	copied := append([]float64(nil), times...)
	return &Track{id: id, path: path, times: copied}
}

func (t *Track) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

func (t *Track) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Len returns the number of timestamps.
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.times)
}

// At returns the timestamp at index i. The caller keeps i in [0, Len()).
func (t *Track) At(i int) float64 {
	return t.times[i]
}

// Times returns a copy of the timestamps.
func (t *Track) Times() []float64 {
	if t == nil {
		return nil
	}
	return append([]float64(nil), t.times...)
}

// Library is the collection of loaded tracks indexed by pattern id.
// Pattern ids are 1-based: pattern 1 is the first track added.
type Library struct {
	tracks []*Track
}

func NewLibrary(tracks ...*Track) *Library {
	lib := &Library{}
	for _, t := range tracks {
		lib.Add(t)
	}
	return lib
}

// Add appends a track. Nil tracks are ignored.
func (l *Library) Add(t *Track) {
	if l == nil || t == nil {
		return
	}
	l.tracks = append(l.tracks, t)
}

// Replace swaps the track sharing t's ID in place, keeping its pattern id.
// Tracks with an unknown ID are appended. Reports whether a track was replaced.
func (l *Library) Replace(t *Track) bool {
	if l == nil || t == nil {
		return false
	}
	for i, existing := range l.tracks {
		if existing.ID() == t.ID() {
			l.tracks[i] = t
			return true
		}
	}
	l.tracks = append(l.tracks, t)
	return false
}

// Track resolves a 1-based pattern index.
func (l *Library) Track(index int) (*Track, error) {
	if l == nil || len(l.tracks) == 0 {
		return nil, ErrNoTracks
	}
	if index < 1 || index > len(l.tracks) {
		return nil, fmt.Errorf("%w: index %d, %d tracks loaded", ErrTrackIndexOutOfRange, index, len(l.tracks))
	}
	return l.tracks[index-1], nil
}

// Lookup finds a track by ID and returns it with its 1-based pattern index.
func (l *Library) Lookup(id string) (*Track, int, bool) {
	if l == nil {
		return nil, 0, false
	}
	for i, t := range l.tracks {
		if t.ID() == id {
			return t, i + 1, true
		}
	}
	return nil, 0, false
}

func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.tracks)
}

// IDs lists track identifiers in pattern order.
func (l *Library) IDs() []string {
	if l == nil {
		return nil
	}
	ids := make([]string, 0, len(l.tracks))
	for _, t := range l.tracks {
		ids = append(ids, t.ID())
	}
	return ids
}
