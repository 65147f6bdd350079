package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/beatspawner/common"
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/ecs/entity"
	"github.com/milk9111/beatspawner/ecs/system"
	"github.com/milk9111/beatspawner/prefabs"
	"github.com/milk9111/beatspawner/rhythm"
	"github.com/milk9111/beatspawner/tracks"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

type GameOptions struct {
	TracksDir string
	Debug     bool
	Single    bool
	Seed      uint64
	Watch     bool
}

type Game struct {
	frames int
	debug  bool

	world     *ecs.World
	scheduler *ecs.Scheduler
	attack    *system.AttackSystem
	reload    *system.TrackReloadSystem
	render    *system.RenderSystem
	clock     *system.StepClock
	library   *rhythm.Library
	spawner   ecs.Entity

	watcher *prefabs.Watcher
	hudFace ebtext.Face
	lastHit string

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(opts GameOptions) (*Game, error) {
	lib := rhythm.NewLibrary()
	rhythm.LoadDirFS(lib, tracks.FS, ".")
	if opts.TracksDir != "" {
		rhythm.LoadDirFS(lib, os.DirFS(opts.TracksDir), ".")
	}
	log.Printf("tracks: %d loaded: %s", lib.Len(), strings.Join(lib.IDs(), ", "))

	spawnerSpec, err := prefabs.LoadSpawnerSpec()
	if err != nil {
		return nil, err
	}
	attackSpec, err := prefabs.LoadAttackSpec()
	if err != nil {
		return nil, err
	}
	beatSpec, err := prefabs.LoadBeatObjectSpec()
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	spawnerOpts := entity.SpawnerOptions{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	if opts.Single {
		mode := rhythm.FireSingle
		spawnerOpts.Mode = &mode
	}

	w := ecs.NewWorld()
	if _, err := entity.BuildBeatObject(w, beatSpec); err != nil {
		return nil, err
	}
	spawner, err := entity.BuildSpawner(w, spawnerSpec, attackSpec, lib, spawnerOpts)
	if err != nil {
		return nil, err
	}

	clock := &system.StepClock{DT: 1 / float64(ebiten.TPS())}
	attack := system.NewAttackSystem(clock)
	reload := system.NewTrackReloadSystem(lib)
	scheduler := ecs.NewScheduler()
	scheduler.Add(reload)
	scheduler.Add(attack)
	scheduler.Add(system.NewSpawnerSystem(clock))
	scheduler.Add(system.NewBulletPhysicsSystem(clock))
	scheduler.Add(system.NewBeatPulseSystem(clock))
	scheduler.Add(system.NewTTLSystem(clock))

	g := &Game{
		debug:     opts.Debug,
		world:     w,
		scheduler: scheduler,
		attack:    attack,
		reload:    reload,
		render:    system.NewRenderSystem(),
		clock:     clock,
		library:   lib,
		spawner:   spawner,
		hudFace:   ebtext.NewGoXFace(basicfont.Face7x13),
	}

	if opts.Watch {
		g.watcher = startWatcher(opts.TracksDir)
	}
	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func startWatcher(tracksDir string) *prefabs.Watcher {
	var dirs []string
	for _, dir := range []string{"prefabs", "prefabs/scripts", tracksDir} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("prefabs: watch %v: %v", dirs, err)
		return nil
	}
	return watcher
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		if g.quit {
			return ebiten.Termination
		}
		return nil
	}

	g.frames++
	g.applyChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		system.StartSpawners(g.world, "")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		system.StopSpawners(g.world, "", true)
	}

	g.scheduler.Update(g.world)

	for _, ev := range g.world.Events().Drain() {
		switch ev.Type {
		case ecs.EventFire:
			fire, ok := ev.Data.(rhythm.FireEvent)
			if !ok {
				continue
			}
			g.lastHit = fmt.Sprintf("%s #%d @ %.3fs (%s)", fire.TrackID, fire.Index, fire.Elapsed, fire.Request.Variant)
			if g.debug {
				log.Printf("spawner: fire %s", g.lastHit)
			}
		case ecs.EventTrackLoaded:
			log.Printf("tracks: reloaded %v", ev.Data)
		case ecs.EventSpawnerStart, ecs.EventSpawnerStop:
			if g.debug {
				log.Printf("spawner: %s %v", ev.Type, ev.Data)
			}
		}
	}

	return g.world.Err()
}

// applyChanges drains the watcher between frames so a reload never lands
// mid-tick.
func (g *Game) applyChanges() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		if err != nil {
			log.Printf("prefabs: watch: %v", err)
		}
	default:
	}

	for _, change := range g.watcher.Poll() {
		switch change.Kind {
		case prefabs.FileTrack:
			// a removal may be the first half of a save; a missing file
			// keeps the loaded copy when the reload is applied
			g.reload.Queue(change.Path)
		case prefabs.FileScript:
			log.Printf("prefabs: reloading script %s", change.Path)
			g.attack.Reload("")
		case prefabs.FileSpec:
			log.Printf("prefabs: %s changed; restart to apply", change.Path)
		}
	}
}

// restartAttack clears bullets and sends the attack script back to its
// initial phase.
func (g *Game) restartAttack() {
	system.StopSpawners(g.world, "", true)
	if mod, ok := ecs.Get(g.world, g.spawner, component.AttackModuleComponent.Kind()); ok {
		mod.Phase = ""
		mod.Elapsed = 0
		mod.Active = false
		mod.BeatGate = false
	}
	g.attack.Reload("")
	g.paused = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.render.Draw(g.world, screen)
	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := []string{fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS())}

	if sp, ok := ecs.Get(g.world, g.spawner, component.SpawnerComponent.Kind()); ok && sp.Scheduler != nil {
		lines = append(lines, fmt.Sprintf("spawner %s  running=%v  cursor=%d  elapsed=%.2fs", sp.Name, sp.Scheduler.Running(), sp.Scheduler.Cursor(), sp.Scheduler.Elapsed()))
		lines = append(lines, fmt.Sprintf("fired=%d  terminals=%d  cycles=%d", sp.Fired, sp.Terminals, sp.Cycles))
	}
	if mod, ok := ecs.Get(g.world, g.spawner, component.AttackModuleComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("attack %s  phase=%s  pattern=%d/%d  gate=%v", mod.Name, mod.Phase, mod.PatternIndex, g.library.Len(), mod.BeatGate))
	}
	lines = append(lines, fmt.Sprintf("bullets=%d", g.world.Count(component.BulletComponent.Kind())))
	if g.lastHit != "" {
		lines = append(lines, "last: "+g.lastHit)
	}
	if g.debug {
		lines = append(lines, "enter: start  x: stop  esc: pause")
	}

	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(8, 8+float64(i)*16)
		op.ColorScale.ScaleWithColor(colornames.White)
		ebtext.Draw(screen, line, g.hudFace, op)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
