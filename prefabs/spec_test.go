package prefabs

import (
	"errors"
	"image/color"
	"testing"

	"github.com/milk9111/beatspawner/rhythm"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedSpawnerSpec(t *testing.T) {
	spec, err := LoadSpawnerSpec()
	if err != nil {
		t.Fatalf("LoadSpawnerSpec: %v", err)
	}
	cfg, err := spec.EmissionConfig()
	if err != nil {
		t.Fatalf("EmissionConfig: %v", err)
	}
	if len(cfg.Variants) < 2 {
		t.Fatalf("expected at least 2 variants, got %d", len(cfg.Variants))
	}
	if cfg.MinAngle > cfg.MaxAngle {
		t.Fatalf("expected min_angle <= max_angle, got %v > %v", cfg.MinAngle, cfg.MaxAngle)
	}
	if spec.Bullet.Pulse == nil {
		t.Fatalf("expected bullet pulse block")
	}
	if _, err := spec.Bullet.Pulse.PulseConfig(); err != nil {
		t.Fatalf("bullet PulseConfig: %v", err)
	}
}

func TestEmbeddedBeatObjectAndAttackSpecs(t *testing.T) {
	beat, err := LoadBeatObjectSpec()
	if err != nil {
		t.Fatalf("LoadBeatObjectSpec: %v", err)
	}
	if _, err := beat.Pulse.PulseConfig(); err != nil {
		t.Fatalf("PulseConfig: %v", err)
	}
	attack, err := LoadAttackSpec()
	if err != nil {
		t.Fatalf("LoadAttackSpec: %v", err)
	}
	if _, err := LoadScript(attack.Script); err != nil {
		t.Fatalf("LoadScript(%q): %v", attack.Script, err)
	}
}

func TestEmissionConfigValidation(t *testing.T) {
	neg := -1.0
	zero := 0.0
	cases := []struct {
		name    string
		spec    SpawnerSpec
		wantErr bool
		jitter  float64
	}{
		{
			name:   "default jitter",
			spec:   SpawnerSpec{Variants: []VariantSpec{{Name: "a"}, {Name: "last"}}},
			jitter: rhythm.DefaultRotationJitter,
		},
		{
			name:   "explicit zero jitter",
			spec:   SpawnerSpec{RotationJitter: &zero, Variants: []VariantSpec{{Name: "a"}, {Name: "last"}}},
			jitter: 0,
		},
		{
			name:    "single variant",
			spec:    SpawnerSpec{Variants: []VariantSpec{{Name: "only"}}},
			wantErr: true,
		},
		{
			name:    "negative jitter",
			spec:    SpawnerSpec{RotationJitter: &neg, Variants: []VariantSpec{{Name: "a"}, {Name: "last"}}},
			wantErr: true,
		},
		{
			name:    "unnamed variant",
			spec:    SpawnerSpec{Variants: []VariantSpec{{Name: "a"}, {Name: " "}}},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := tc.spec.EmissionConfig()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.RotationJitter != tc.jitter {
				t.Fatalf("expected jitter %v, got %v", tc.jitter, cfg.RotationJitter)
			}
		})
	}
}

func TestFireMode(t *testing.T) {
	cases := map[string]rhythm.FireMode{
		"":       rhythm.FireAll,
		"all":    rhythm.FireAll,
		"Single": rhythm.FireSingle,
	}
	for in, want := range cases {
		spec := SpawnerSpec{FireMode: in}
		got, err := spec.Mode()
		if err != nil {
			t.Fatalf("Mode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Mode(%q) = %v, want %v", in, got, want)
		}
	}

	spec := SpawnerSpec{FireMode: "burst"}
	if _, err := spec.Mode(); !errors.Is(err, rhythm.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPulseConfigRejectsBadBPM(t *testing.T) {
	if _, err := (PulseSpec{BPM: 0}).PulseConfig(); !errors.Is(err, rhythm.ErrInvalidBPM) {
		t.Fatalf("expected ErrInvalidBPM, got %v", err)
	}
}

func TestYAMLColor(t *testing.T) {
	var doc struct {
		C *YAMLColor `yaml:"c"`
	}
	if err := yaml.Unmarshal([]byte(`c: "#ff8000"`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := doc.C.RGBAOr(color.RGBA{})
	if got != (color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}) {
		t.Fatalf("unexpected color %+v", got)
	}

	if err := yaml.Unmarshal([]byte(`c: "#12345"`), &doc); err == nil {
		t.Fatalf("expected error for short color")
	}

	var unset *YAMLColor
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	if unset.RGBAOr(fallback) != fallback {
		t.Fatalf("expected fallback for nil color")
	}
}
