package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/beatspawner/ecs"
	"github.com/milk9111/beatspawner/ecs/component"
	"github.com/milk9111/beatspawner/prefabs"
)

// AttackSystem runs each attack module's tengo script. The script drives the
// module's pattern index, terminal flag and beat gate, and starts or stops the
// spawner on the same entity.
type AttackSystem struct {
	clock    Clock
	runtimes map[ecs.Entity]*attackRuntime
}

type attackRuntime struct {
	scriptPath  string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initial     string
	initialized bool
	pending     string
}

const attackLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_phase)
} else if __phase == "update" {
	update(__engine, __state, __current_phase)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_phase)
}
`

func NewAttackSystem(clock Clock) *AttackSystem {
	return &AttackSystem{clock: clock, runtimes: map[ecs.Entity]*attackRuntime{}}
}

// Reload drops compiled scripts so the next update recompiles them. An empty
// path drops every script.
func (s *AttackSystem) Reload(scriptPath string) {
	if s == nil {
		return
	}
	for ent, rt := range s.runtimes {
		if scriptPath == "" || rt.scriptPath == scriptPath {
			delete(s.runtimes, ent)
		}
	}
}

func (s *AttackSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if s.runtimes == nil {
		s.runtimes = map[ecs.Entity]*attackRuntime{}
	}

	dt := 0.0
	if s.clock != nil {
		dt = s.clock.Delta()
	}
	if dt < 0 {
		dt = 0
	}

	for ent := range s.runtimes {
		if !ecs.IsAlive(w, ent) {
			delete(s.runtimes, ent)
		}
	}

	ecs.ForEach(w, component.AttackModuleComponent.Kind(), func(e ecs.Entity, mod *component.AttackModule) {
		if strings.TrimSpace(mod.ScriptPath) == "" {
			return
		}

		rt, err := s.runtime(e, mod.ScriptPath)
		if err != nil {
			w.Fail(fmt.Errorf("attack: %s load script %q: %w", attackLabel(e, mod), mod.ScriptPath, err))
			return
		}

		if mod.Phase == "" {
			mod.Phase = rt.initial
		}
		mod.Elapsed += dt

		engine := buildAttackEngine(w, e, mod, rt, dt)
		if !rt.initialized {
			if err := rt.runPhase("enter", mod.Phase, engine); err != nil {
				w.Fail(fmt.Errorf("attack: %s onEnter: %w", attackLabel(e, mod), err))
				return
			}
			rt.initialized = true
		}

		if err := rt.runPhase("update", mod.Phase, engine); err != nil {
			w.Fail(fmt.Errorf("attack: %s update: %w", attackLabel(e, mod), err))
			return
		}

		if rt.pending == "" || rt.pending == mod.Phase {
			rt.pending = ""
			return
		}

		if err := rt.runPhase("exit", mod.Phase, engine); err != nil {
			w.Fail(fmt.Errorf("attack: %s onExit: %w", attackLabel(e, mod), err))
			return
		}

		mod.Phase = rt.pending
		mod.Elapsed = 0
		rt.pending = ""
		if mod.Phase == rt.initial {
			mod.Cycle++
		}

		if err := rt.runPhase("enter", mod.Phase, engine); err != nil {
			w.Fail(fmt.Errorf("attack: %s onEnter: %w", attackLabel(e, mod), err))
		}
	})
}

func (s *AttackSystem) runtime(ent ecs.Entity, scriptPath string) (*attackRuntime, error) {
	if rt, ok := s.runtimes[ent]; ok && rt != nil && rt.scriptPath == scriptPath {
		return rt, nil
	}

	scriptBytes, err := prefabs.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}

	rt, err := compileAttackScript(scriptPath, scriptBytes)
	if err != nil {
		return nil, err
	}
	s.runtimes[ent] = rt
	return rt, nil
}

func compileAttackScript(scriptPath string, src []byte) (*attackRuntime, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + attackLifecycleDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_phase", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}

	rt := &attackRuntime{
		scriptPath: scriptPath,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
		initial:    "rest",
	}

	// initial_state is an optional script global.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", rt.initial, noop); err != nil {
		return nil, err
	}
	if compiled.IsDefined("initial_state") {
		if name := strings.TrimSpace(compiled.Get("initial_state").String()); name != "" {
			rt.initial = name
		}
	}
	return rt, nil
}

func (rt *attackRuntime) runPhase(phase, current string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_phase", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildAttackEngine(w *ecs.World, e ecs.Entity, mod *component.AttackModule, rt *attackRuntime, dt float64) *tengo.ImmutableMap {
	spawner, _ := ecs.Get(w, e, component.SpawnerComponent.Kind())
	target := ""
	if spawner != nil {
		target = spawner.Name
	}

	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = name
		return tengo.TrueValue, nil
	}}

	values["phase"] = &tengo.UserFunction{Name: "phase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: mod.Phase}, nil
	}}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: mod.Elapsed}, nil
	}}

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: dt}, nil
	}}

	values["cycle"] = &tengo.UserFunction{Name: "cycle", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(mod.Cycle)}, nil
	}}

	values["pattern_count"] = &tengo.UserFunction{Name: "pattern_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if spawner == nil || spawner.Library == nil {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(spawner.Library.Len())}, nil
	}}

	values["set_pattern"] = &tengo.UserFunction{Name: "set_pattern", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		idx, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		mod.PatternIndex = idx
		return tengo.TrueValue, nil
	}}

	values["set_active"] = &tengo.UserFunction{Name: "set_active", Value: func(args ...tengo.Object) (tengo.Object, error) {
		mod.Active = len(args) > 0 && !args[0].IsFalsy()
		return tengo.TrueValue, nil
	}}

	values["set_gate"] = &tengo.UserFunction{Name: "set_gate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		mod.BeatGate = len(args) > 0 && !args[0].IsFalsy()
		return tengo.TrueValue, nil
	}}

	values["start_attack"] = &tengo.UserFunction{Name: "start_attack", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if spawner == nil {
			return tengo.FalseValue, nil
		}
		StartSpawners(w, target)
		return tengo.TrueValue, nil
	}}

	values["stop_attack"] = &tengo.UserFunction{Name: "stop_attack", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if spawner == nil {
			return tengo.FalseValue, nil
		}
		destroy := len(args) > 0 && !args[0].IsFalsy()
		StopSpawners(w, target, destroy)
		return tengo.TrueValue, nil
	}}

	values["spawner_running"] = &tengo.UserFunction{Name: "spawner_running", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if spawner == nil {
			return tengo.FalseValue, nil
		}
		if (spawner.Scheduler != nil && spawner.Scheduler.Running()) || StartPending(w) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectAsString(arg))
		}
		fmt.Printf("attack: %s %s\n", attackLabel(e, mod), strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func attackLabel(e ecs.Entity, mod *component.AttackModule) string {
	if mod != nil && mod.Name != "" {
		return mod.Name
	}
	return "entity=" + e.String()
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
