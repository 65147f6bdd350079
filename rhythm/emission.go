package rhythm

import (
	"fmt"
	"math/rand/v2"
)

const DefaultRotationJitter = 15.0

// EmissionConfig configures bullet variant selection. Every variant except
// the last is a regular bullet; the last one is fired once at the end of an
// attack.
type EmissionConfig struct {
	Variants       []string
	MinAngle       float64
	MaxAngle       float64
	RotationJitter float64
}

func (c EmissionConfig) Validate() error {
	if len(c.Variants) < 2 {
		return fmt.Errorf("%w: need at least one regular and one terminal variant, got %d", ErrInvalidConfig, len(c.Variants))
	}
	if c.RotationJitter < 0 {
		return fmt.Errorf("%w: rotation jitter %v is negative", ErrInvalidConfig, c.RotationJitter)
	}
	return nil
}

// EmissionPolicy decides which variant each firing instantiates and how it
// is oriented.
type EmissionPolicy struct {
	cfg EmissionConfig
	rng *rand.Rand
}

// NewEmissionPolicy validates cfg. A nil rng uses a randomly seeded source.
func NewEmissionPolicy(cfg EmissionConfig, rng *rand.Rand) (*EmissionPolicy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	cfg.Variants = append([]string(nil), cfg.Variants...)
	return &EmissionPolicy{cfg: cfg, rng: rng}, nil
}

// VariantCount is the number of regular variants.
func (p *EmissionPolicy) VariantCount() int {
	return len(p.cfg.Variants) - 1
}

func (p *EmissionPolicy) AngleRange() AngleRange {
	return AngleRange{Min: p.cfg.MinAngle, Max: p.cfg.MaxAngle}
}

// ChooseRegularVariant picks uniformly from [0, variantCount).
func (p *EmissionPolicy) ChooseRegularVariant(variantCount int) int {
	if variantCount <= 1 {
		return 0
	}
	return p.rng.IntN(variantCount)
}

func (p *EmissionPolicy) ChooseTerminalVariant() int {
	return len(p.cfg.Variants) - 1
}

// Perturb offsets base by a uniform amount in [-jitter, +jitter].
func (p *EmissionPolicy) Perturb(base float64) float64 {
	j := p.cfg.RotationJitter
	if j == 0 {
		return base
	}
	return base + (p.rng.Float64()*2-1)*j
}

func (p *EmissionPolicy) BuildSpawnRequest(variantID int, position Vec2, rotation float64, angles AngleRange) SpawnRequest {
	req := SpawnRequest{
		VariantID:  variantID,
		Terminal:   variantID == p.ChooseTerminalVariant(),
		Position:   position,
		Rotation:   rotation,
		AngleRange: angles,
	}
	if variantID >= 0 && variantID < len(p.cfg.Variants) {
		req.Variant = p.cfg.Variants[variantID]
	}
	return req
}

// Regular builds the request for a scheduled firing at position.
func (p *EmissionPolicy) Regular(position Vec2) SpawnRequest {
	id := p.ChooseRegularVariant(p.VariantCount())
	return p.BuildSpawnRequest(id, position, p.Perturb(0), p.AngleRange())
}

// Terminal builds the request for the end-of-attack firing.
func (p *EmissionPolicy) Terminal(position Vec2) SpawnRequest {
	return p.BuildSpawnRequest(p.ChooseTerminalVariant(), position, p.Perturb(0), p.AngleRange())
}
