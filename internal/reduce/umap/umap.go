// Package umap implements a from-scratch UMAP reduction over cosine
// distance: exact k-NN, smooth-kNN bandwidth calibration, fuzzy
// simplicial set construction and symmetrization, a seeded layout
// initialization, and an SGD cross-entropy optimizer. Grounded on
// original_source/crates/umap-core/src/reduction.rs, which this
// package reassembles from the internal/reduce/{knn,smoothknn,
// fuzzyset,layout} stages.
package umap

import (
	"math/rand"

	"github.com/kestrelhq/semanticmap/internal/reduce/fuzzyset"
	"github.com/kestrelhq/semanticmap/internal/reduce/knn"
	"github.com/kestrelhq/semanticmap/internal/reduce/layout"
	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
	"github.com/kestrelhq/semanticmap/internal/reduce/reduceerr"
	"github.com/kestrelhq/semanticmap/internal/reduce/smoothknn"
)

const (
	localConnectivity = 1.0
	bandwidth         = 1.0
)

// ReduceCosine fits a 2D or 3D UMAP embedding of m under cosine
// distance. n=0 returns an empty 0xdims matrix; n<=2 returns zeros of
// shape nxdims (layout is meaningless below 3 points); both are
// documented degenerate cases, not errors, per spec.md §7.
func ReduceCosine(m matrix.Matrix, dims int, params Params) (matrix.Matrix, error) {
	if dims != 2 && dims != 3 {
		return matrix.Matrix{}, reduceerr.NewShapeError("umap.ReduceCosine", "dims must be 2 or 3, got %d", dims)
	}
	if err := params.Validate(); err != nil {
		return matrix.Matrix{}, err
	}

	n := m.Rows
	if n == 0 {
		return matrix.New(0, dims), nil
	}
	if n <= 2 {
		return matrix.New(n, dims), nil
	}

	k := params.NNeighbors
	if k > n-1 {
		k = n - 1
	}

	indices, distances, err := knn.Cosine(m, k)
	if err != nil {
		return matrix.Matrix{}, err
	}

	rho, sigma := smoothknn.Calibrate(distances, localConnectivity, bandwidth)

	fs := fuzzyset.Build(indices.Rows2D(), distances.Rows2D(), rho, sigma)
	fs = fuzzyset.Symmetrize(fs, params.SetOpMixRatio)

	rng := rand.New(rand.NewSource(int64(params.RandomState)))
	y := layout.InitWithRand(n, dims, rng)

	a, b := layout.FindAB(params.Spread, params.MinDist)
	optimizeLayout(y, fs, a, b, params, rng)

	return y, nil
}
