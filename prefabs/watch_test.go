package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := map[string]FileKind{
		"prefabs/spawner.yaml":         FileSpec,
		"prefabs/other.YML":            FileSpec,
		"prefabs/scripts/attack.tengo": FileScript,
		"tracks/songA.JSON":            FileTrack,
		"README.md":                    FileUnknown,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"attack.tengo":                 "scripts/attack.tengo",
		"scripts/attack.tengo":         "scripts/attack.tengo",
		"prefabs/scripts/attack.tengo": "scripts/attack.tengo",
	}
	for in, want := range cases {
		if got := cleanScriptPath(in); got != want {
			t.Fatalf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWatcherReportsTrackChange(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "songD.json")
	if err := os.WriteFile(path, []byte(`{"tracks":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ch := <-w.Events:
		if ch.Kind != FileTrack || filepath.Base(ch.Path) != "songD.json" {
			t.Fatalf("unexpected change %+v", ch)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change")
	}
}

func TestWatcherPollAfterClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := w.Poll(); len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}
	// second close is a no-op
	_ = w.Close()
}

func TestWatcherReportsRecreateAfterRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songA.json")
	if err := os.WriteFile(path, []byte(`{"tracks":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// backup-style save: move the old file aside, write the new one
	if err := os.Rename(path, path+"~"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"tracks":[{"notes":[{"time":1}]}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ch := <-w.Events:
			if filepath.Base(ch.Path) == "songA.json" && ch.Kind == FileTrack && !ch.Removed {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for the recreated file")
		}
	}
}
