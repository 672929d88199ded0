package umap

import "github.com/kestrelhq/semanticmap/internal/reduce/reduceerr"

// Params enumerates the options a UMAP reduction accepts, per
// spec.md §3 UmapParams.
type Params struct {
	NNeighbors          int
	NEpochs             int
	MinDist             float32
	Spread              float32
	LearningRate        float32
	NegativeSampleRate  int
	SetOpMixRatio       float32
	RepulsionStrength   float32
	RandomState         uint64
}

// DefaultParams mirrors the standard UMAP reference defaults, matching
// original_source/crates/umap-core/src/reduction.rs's UmapParams::default.
func DefaultParams() Params {
	return Params{
		NNeighbors:         15,
		NEpochs:            200,
		MinDist:            0.1,
		Spread:             1.0,
		LearningRate:       1.0,
		NegativeSampleRate: 5,
		SetOpMixRatio:      1.0,
		RepulsionStrength:  1.0,
		RandomState:        42,
	}
}

// Validate checks every field against its permitted range, returning a
// ConfigError naming the first offending field.
func (p Params) Validate() error {
	if p.NNeighbors < 2 {
		return reduceerr.NewConfigError("n_neighbors", "must be >= 2, got %d", p.NNeighbors)
	}
	if p.NEpochs < 1 {
		return reduceerr.NewConfigError("n_epochs", "must be >= 1, got %d", p.NEpochs)
	}
	if p.MinDist <= 0 {
		return reduceerr.NewConfigError("min_dist", "must be > 0, got %f", p.MinDist)
	}
	if p.Spread <= 0 {
		return reduceerr.NewConfigError("spread", "must be > 0, got %f", p.Spread)
	}
	if p.LearningRate <= 0 {
		return reduceerr.NewConfigError("learning_rate", "must be > 0, got %f", p.LearningRate)
	}
	if p.NegativeSampleRate < 0 {
		return reduceerr.NewConfigError("negative_sample_rate", "must be >= 0, got %d", p.NegativeSampleRate)
	}
	if p.SetOpMixRatio < 0 || p.SetOpMixRatio > 1 {
		return reduceerr.NewConfigError("set_op_mix_ratio", "must be in [0,1], got %f", p.SetOpMixRatio)
	}
	if p.RepulsionStrength <= 0 {
		return reduceerr.NewConfigError("repulsion_strength", "must be > 0, got %f", p.RepulsionStrength)
	}
	return nil
}
