// Package smoothknn calibrates, per row, a local connectivity offset
// (rho) and a bandwidth (sigma) so the soft cardinality of each row's
// neighborhood matches log2(k), grounded on
// original_source/crates/umap-core/src/reduction.rs
// (smooth_knn_distances / smooth_knn_fn).
package smoothknn

import (
	"math"

	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
)

const (
	maxBinarySearchIter = 64
	maxExpandIter       = 8
	searchTolerance     = 1e-5
	minSigma            = 1e-8
)

// Calibrate returns rho and sigma for every row of distances (an n x k
// matrix of ascending neighbor distances). localConnectivity and
// bandwidth follow the UMAP reference defaults of 1.0.
func Calibrate(distances matrix.Matrix, localConnectivity, bandwidth float32) (rho, sigma []float32) {
	n := distances.Rows
	k := distances.Cols
	rho = make([]float32, n)
	sigma = make([]float32, n)

	target := float32(math.Log2(float64(k))) * bandwidth

	lc := localConnectivity
	if lc < 1 {
		lc = 1
	}
	idx := int(lc) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= k {
		idx = k - 1
	}

	for i := 0; i < n; i++ {
		row := distances.Row(i)
		r := row[idx]
		if r < 0 {
			r = 0
		}
		rho[i] = r

		hi := float32(1.0)
		for iter := 0; iter < maxExpandIter; iter++ {
			if sumExp(row, r, hi) > target {
				break
			}
			hi *= 2
		}

		lo := float32(0.0)
		s := hi
		for iter := 0; iter < maxBinarySearchIter; iter++ {
			mid := 0.5 * (lo + hi)
			val := sumExp(row, r, mid)
			s = mid
			if float32(math.Abs(float64(val-target))) < searchTolerance {
				break
			}
			if val > target {
				hi = mid
			} else {
				lo = mid
			}
		}
		if s < minSigma {
			s = minSigma
		}
		sigma[i] = s
	}

	return rho, sigma
}

func sumExp(row []float32, rho, sigma float32) float32 {
	var sum float32
	for _, d := range row {
		diff := d - rho
		if diff > 0 {
			sum += float32(math.Exp(-float64(diff) / float64(sigma)))
		} else {
			sum += 1
		}
	}
	return sum
}
