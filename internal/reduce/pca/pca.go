// Package pca reduces a dense matrix to its first 1-3 principal
// components via eigendecomposition of the covariance matrix, using
// gonum/mat (the linear-algebra library the retrieval pack reaches for
// in gonum-based numeric code, replacing the original Rust
// implementation's linfa_reduction::Pca, see
// original_source/crates/umap-core/src/reduction.rs PcaReducer).
package pca

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
	"github.com/kestrelhq/semanticmap/internal/reduce/reduceerr"
)

// Reduce projects m (n x d) onto its first dims principal components,
// dims in {1,2,3}, and returns the n x dims projection as 32-bit
// floats. Component sign is eigenvector-sign-ambiguous by construction
// (spec.md §4.8); callers must not depend on it.
func Reduce(m matrix.Matrix, dims int) (matrix.Matrix, error) {
	if dims < 1 || dims > 3 {
		return matrix.Matrix{}, reduceerr.NewShapeError("pca.Reduce", "dims must be 1..=3, got %d", dims)
	}
	n, d := m.Rows, m.Cols
	if n == 0 {
		return matrix.New(0, dims), nil
	}
	if d == 0 || dims > d {
		return matrix.Matrix{}, reduceerr.NewShapeError("pca.Reduce", "dims=%d exceeds input dimensionality %d", dims, d)
	}

	data64 := make([]float64, n*d)
	for i := range data64 {
		data64[i] = float64(m.Data[i])
	}
	x := mat.NewDense(n, d, data64)

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, x)
		var sum float64
		for _, v := range col {
			sum += v
		}
		means[j] = sum / float64(n)
	}

	centered := mat.NewDense(n, d, nil)
	centered.Apply(func(i, j int, v float64) float64 {
		return v - means[j]
	}, x)

	cov := mat.NewSymDense(d, nil)
	if n > 1 {
		var covDense mat.Dense
		covDense.Mul(centered.T(), centered)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				cov.SetSym(i, j, covDense.At(i, j)/float64(n-1))
			}
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(cov, true)
	if !ok {
		return matrix.Matrix{}, reduceerr.NewNumericError("pca.Reduce", "eigendecomposition of covariance matrix failed to converge")
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, d)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	components := mat.NewDense(d, dims, nil)
	for col := 0; col < dims; col++ {
		src := order[col]
		for row := 0; row < d; row++ {
			components.Set(row, col, vectors.At(row, src))
		}
	}

	var projected mat.Dense
	projected.Mul(centered, components)

	out := matrix.New(n, dims)
	for i := 0; i < n; i++ {
		for j := 0; j < dims; j++ {
			out.Set(i, j, float32(projected.At(i, j)))
		}
	}
	return out, nil
}
