package rhythm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"
)

const trackExt = ".json"

// trackDocument is the subset of the authoring tool's export we read.
// Everything except note times is ignored.
type trackDocument struct {
	Tracks []struct {
		Notes []struct {
			Time *float64 `json:"time"`
		} `json:"notes"`
	} `json:"tracks"`
}

// TrackID derives a track identifier from a source path: the base name with
// a single trailing ".json" removed.
func TrackID(p string) string {
	s := p
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	if len(s) >= len(trackExt) && strings.EqualFold(s[len(s)-len(trackExt):], trackExt) {
		s = s[:len(s)-len(trackExt)]
	}
	return s
}

// LoadTrack reads a track document from disk.
func LoadTrack(p string) (*Track, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, readError(p, err)
	}
	return ParseTrack(p, data)
}

// LoadTrackFS reads a track document from fsys.
func LoadTrackFS(fsys fs.FS, name string) (*Track, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, readError(name, err)
	}
	return ParseTrack(name, data)
}

// ParseTrack decodes a track document. Note times are kept in document
// order, track by track.
func ParseTrack(p string, data []byte) (*Track, error) {
	var doc trackDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rhythm: decode %s: %w", p, err)
	}

	var times []float64
	for ti, tr := range doc.Tracks {
		for ni, note := range tr.Notes {
			if note.Time == nil {
				return nil, fmt.Errorf("rhythm: decode %s: track %d note %d has no time", p, ti, ni)
			}
			if *note.Time < 0 {
				return nil, fmt.Errorf("rhythm: decode %s: track %d note %d has negative time %v", p, ti, ni, *note.Time)
			}
			times = append(times, *note.Time)
		}
	}

	return NewTrack(TrackID(p), p, times), nil
}

func readError(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrTrackNotFound, p, err)
	}
	return fmt.Errorf("rhythm: read %s: %w", p, err)
}

// LoadInto loads the track at p and stores it in lib, replacing any track
// with the same ID. Failures are logged and leave lib untouched.
func LoadInto(lib *Library, p string) bool {
	t, err := LoadTrack(p)
	if err != nil {
		if errors.Is(err, ErrTrackNotFound) {
			log.Printf("tracks: %s not found, skipping", p)
		} else {
			log.Printf("tracks: load %s: %v", p, err)
		}
		return false
	}
	lib.Replace(t)
	log.Printf("tracks: loaded %s (%d notes)", t.ID(), t.Len())
	return true
}

// LoadDirFS loads every .json document directly under dir in fsys, in
// lexical order, so pattern ids follow file names. Bad documents are
// logged and skipped. Returns the number of tracks loaded.
func LoadDirFS(lib *Library, fsys fs.FS, dir string) int {
	pattern := path.Join(dir, "*"+trackExt)
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		log.Printf("tracks: glob %s: %v", pattern, err)
		return 0
	}
	sort.Strings(names)

	loaded := 0
	for _, name := range names {
		t, err := LoadTrackFS(fsys, name)
		if err != nil {
			log.Printf("tracks: load %s: %v", name, err)
			continue
		}
		lib.Replace(t)
		loaded++
	}
	return loaded
}
