// Package knn computes exact cosine k-nearest-neighbors over a dense
// matrix, grounded on original_source/crates/umap-core/src/reduction.rs
// (knn_cosine) and the teacher's pkg/hnsw/distance.go cosine metric.
package knn

import (
	"math"
	"sort"

	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
	"github.com/kestrelhq/semanticmap/internal/reduce/reduceerr"
)

// Cosine returns, for every row of m, the k nearest other rows in
// ascending cosine distance. indices[i][0] is never i. Ties are
// broken by ascending row index for determinism. k must be in
// [1, n-1].
func Cosine(m matrix.Matrix, k int) (matrix.IntMatrix, matrix.Matrix, error) {
	n := m.Rows
	if k < 1 || k > n-1 {
		return matrix.IntMatrix{}, matrix.Matrix{}, reduceerr.NewShapeError("knn.Cosine", "k=%d out of range [1, %d]", k, n-1)
	}

	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for _, x := range m.Row(i) {
			s += float64(x) * float64(x)
		}
		norms[i] = math.Sqrt(s)
	}

	indices := matrix.NewInt(n, k)
	distances := matrix.New(n, k)

	type candidate struct {
		j    int
		dist float32
	}

	for i := 0; i < n; i++ {
		candidates := make([]candidate, 0, n-1)
		rowI := m.Row(i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			var dot float64
			rowJ := m.Row(j)
			for c := 0; c < m.Cols; c++ {
				dot += float64(rowI[c]) * float64(rowJ[c])
			}
			denom := norms[i] * norms[j]
			if denom < 1e-8 {
				denom = 1e-8
			}
			cos := dot / denom
			dist := 1.0 - cos
			candidates = append(candidates, candidate{j: j, dist: float32(dist)})
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].dist != candidates[b].dist {
				return candidates[a].dist < candidates[b].dist
			}
			return candidates[a].j < candidates[b].j
		})

		for nn := 0; nn < k; nn++ {
			indices.Set(i, nn, candidates[nn].j)
			distances.Set(i, nn, candidates[nn].dist)
		}
	}

	return indices, distances, nil
}
