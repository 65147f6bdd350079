package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/beatspawner/rhythm"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SpawnerSpec configures a rhythm bullet spawner. The last variant is the
// terminal bullet fired once when an attack runs out of notes.
type SpawnerSpec struct {
	Name           string          `yaml:"name"`
	Transform      TransformSpec   `yaml:"transform"`
	FireMode       string          `yaml:"fire_mode"`
	MinAngle       float64         `yaml:"min_angle"`
	MaxAngle       float64         `yaml:"max_angle"`
	RotationJitter *float64        `yaml:"rotation_jitter"`
	Variants       []VariantSpec   `yaml:"variants"`
	Bullet         BulletSpec      `yaml:"bullet"`
	RenderLayer    RenderLayerSpec `yaml:"render_layer"`
}

type VariantSpec struct {
	Name   string     `yaml:"name"`
	Color  *YAMLColor `yaml:"color"`
	Radius float64    `yaml:"radius"`
	Speed  float64    `yaml:"speed"`
	Spin   float64    `yaml:"spin"`
}

// BulletSpec holds settings shared by every spawned bullet.
type BulletSpec struct {
	TTL   float64    `yaml:"ttl"`
	Mass  float64    `yaml:"mass"`
	Pulse *PulseSpec `yaml:"pulse"`
}

type PulseSpec struct {
	BPM               float64 `yaml:"bpm"`
	BeatSizeIncrement float64 `yaml:"beat_size_increment"`
	ScaleUp           bool    `yaml:"scale_up"`
	FollowGate        bool    `yaml:"follow_gate"`
}

// BeatObjectSpec is a scene object that pulses with the music.
type BeatObjectSpec struct {
	Name        string          `yaml:"name"`
	Transform   TransformSpec   `yaml:"transform"`
	Sprite      SpriteSpec      `yaml:"sprite"`
	RenderLayer RenderLayerSpec `yaml:"render_layer"`
	Pulse       PulseSpec       `yaml:"pulse"`
}

// AttackSpec configures the scripted attack module that selects patterns.
type AttackSpec struct {
	Name   string `yaml:"name"`
	Script string `yaml:"script"`
}

func LoadSpawnerSpec() (*SpawnerSpec, error) {
	spec, err := LoadSpec[SpawnerSpec]("spawner.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadBeatObjectSpec() (*BeatObjectSpec, error) {
	spec, err := LoadSpec[BeatObjectSpec]("beat_object.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadAttackSpec() (*AttackSpec, error) {
	spec, err := LoadSpec[AttackSpec]("attack.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// EmissionConfig validates the spawner's variant and angle settings.
func (s *SpawnerSpec) EmissionConfig() (rhythm.EmissionConfig, error) {
	cfg := rhythm.EmissionConfig{
		MinAngle:       s.MinAngle,
		MaxAngle:       s.MaxAngle,
		RotationJitter: rhythm.DefaultRotationJitter,
	}
	if s.RotationJitter != nil {
		cfg.RotationJitter = *s.RotationJitter
	}
	for i, v := range s.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return rhythm.EmissionConfig{}, fmt.Errorf("prefabs: spawner %q: variant %d has no name", s.Name, i)
		}
		cfg.Variants = append(cfg.Variants, name)
	}
	if err := cfg.Validate(); err != nil {
		return rhythm.EmissionConfig{}, fmt.Errorf("prefabs: spawner %q: %w", s.Name, err)
	}
	return cfg, nil
}

// Mode parses fire_mode. Empty means "all".
func (s *SpawnerSpec) Mode() (rhythm.FireMode, error) {
	switch strings.ToLower(strings.TrimSpace(s.FireMode)) {
	case "", "all":
		return rhythm.FireAll, nil
	case "single":
		return rhythm.FireSingle, nil
	default:
		return rhythm.FireAll, fmt.Errorf("prefabs: spawner %q: %w: unknown fire_mode %q", s.Name, rhythm.ErrInvalidConfig, s.FireMode)
	}
}

// Variant looks up a variant by index.
func (s *SpawnerSpec) Variant(id int) (VariantSpec, bool) {
	if id < 0 || id >= len(s.Variants) {
		return VariantSpec{}, false
	}
	return s.Variants[id], true
}

func (p PulseSpec) PulseConfig() (rhythm.PulseConfig, error) {
	cfg := rhythm.PulseConfig{
		BPM:       p.BPM,
		Increment: p.BeatSizeIncrement,
		ScaleUp:   p.ScaleUp,
	}
	if err := cfg.Validate(); err != nil {
		return rhythm.PulseConfig{}, fmt.Errorf("prefabs: pulse: %w", err)
	}
	return cfg, nil
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteSpec struct {
	Image   string     `yaml:"image"`
	Color   *YAMLColor `yaml:"color"`
	Radius  float64    `yaml:"radius"`
	OriginX float64    `yaml:"origin_x"`
	OriginY float64    `yaml:"origin_y"`
	Outline bool       `yaml:"outline"`
}

type YAMLColor struct {
	color.Color
}

// RGBAOr returns the color as premultiplied RGBA, or fallback when unset.
func (c *YAMLColor) RGBAOr(fallback color.RGBA) color.RGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	return color.RGBAModel.Convert(c.Color).(color.RGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
