package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	tracksDir := flag.String("tracks", "", "directory of track .json files loaded over the embedded ones")
	single := flag.Bool("single", false, "fire at most one note per frame")
	seed := flag.Uint64("seed", 0, "random seed for bullet variants and angles (0 picks one)")
	watch := flag.Bool("watch", true, "hot reload tracks, prefabs and scripts from disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("beatspawner")

	game, err := NewGame(GameOptions{
		TracksDir: *tracksDir,
		Debug:     *debug,
		Single:    *single,
		Seed:      *seed,
		Watch:     *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
