package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// FileKind classifies a changed file.
type FileKind int

const (
	FileUnknown FileKind = iota
	FileSpec
	FileScript
	FileTrack
)

func (k FileKind) String() string {
	switch k {
	case FileSpec:
		return "spec"
	case FileScript:
		return "script"
	case FileTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Classify maps a path to the kind of file the game reloads.
func Classify(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileSpec
	case ".tengo":
		return FileScript
	case ".json":
		return FileTrack
	default:
		return FileUnknown
	}
}

// Change is a debounced file change.
type Change struct {
	Path    string
	Kind    FileKind
	Removed bool
}

// Watcher reports changes to prefab specs, scripts and track documents. The
// game loop drains Events between frames so reloads never land mid-tick.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll returns every pending change without blocking.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case ch, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, ch)
		default:
			return out
		}
	}
}

type lastChange struct {
	at      time.Time
	removed bool
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]lastChange)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := Classify(event.Name)
			if kind == FileUnknown {
				continue
			}
			now := time.Now()
			removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			// a write after a remove is new content and is never debounced
			if prev, ok := last[event.Name]; ok && prev.removed == removed && now.Sub(prev.at) < watchDebounce {
				continue
			}
			last[event.Name] = lastChange{at: now, removed: removed}
			change := Change{
				Path:    event.Name,
				Kind:    kind,
				Removed: removed,
			}
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
