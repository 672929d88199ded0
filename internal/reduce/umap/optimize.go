package umap

import (
	"math"
	"math/rand"

	"github.com/kestrelhq/semanticmap/internal/reduce/fuzzyset"
	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
)

// optimizeLayout runs n_epochs passes of SGD over every symmetrized
// edge once, in stored order, applying an attractive update between
// the edge's endpoints and a repulsive update against
// negative_sample_rate randomly drawn non-neighbors. Grounded on
// original_source/crates/umap-core/src/reduction.rs (optimize_layout /
// edge_gradient / negative_gradient); the repulsive update mutates both
// endpoints symmetrically, matching the original's choice documented
// as an accepted option in spec.md §9.2.
func optimizeLayout(y matrix.Matrix, fs fuzzyset.FuzzySet, a, b float32, params Params, rng *rand.Rand) {
	n := y.Rows
	dims := y.Cols
	nEdges := len(fs.Rows)
	if nEdges == 0 {
		return
	}

	diff := make([]float32, dims)

	for epoch := 0; epoch < params.NEpochs; epoch++ {
		for e := 0; e < nEdges; e++ {
			i := fs.Rows[e]
			j := fs.Cols[e]
			w := fs.Vals[e]

			coeff, dist := attractiveCoeff(y, i, j, a, b, diff)
			if dist > 0 {
				for d := 0; d < dims; d++ {
					delta := params.LearningRate * w * coeff * diff[d]
					y.Row(i)[d] -= delta
					y.Row(j)[d] += delta
				}
			}

			for s := 0; s < params.NegativeSampleRate; s++ {
				jn := rng.Intn(n)
				if jn == i {
					continue
				}
				coeff := repulsiveCoeff(y, i, jn, a, b, params.RepulsionStrength, diff)
				for d := 0; d < dims; d++ {
					delta := params.LearningRate * coeff * diff[d]
					y.Row(i)[d] += delta
					y.Row(jn)[d] -= delta
				}
			}
		}
	}
}

// attractiveCoeff fills diff with y[i]-y[j] and returns the scalar
// coefficient alpha_att = 2*b*a*r^(2b-2)*q^2 along with r.
func attractiveCoeff(y matrix.Matrix, i, j int, a, b float32, diff []float32) (coeff, r float32) {
	var r2 float32
	yi, yj := y.Row(i), y.Row(j)
	for d := range diff {
		v := yi[d] - yj[d]
		diff[d] = v
		r2 += v * v
	}
	r = float32(math.Sqrt(float64(r2)))
	if r == 0 {
		return 0, 0
	}
	q := 1 / (1 + a*powf(r, 2*b))
	coeff = 2 * b * a * powf(r, 2*b-2) * q * q
	return coeff, r
}

// repulsiveCoeff fills diff with y[i]-y[j] and returns the scalar
// coefficient alpha_rep = repulsion_strength*2*b/(1e-3+r)*q*(1-q).
func repulsiveCoeff(y matrix.Matrix, i, j int, a, b, repulsionStrength float32, diff []float32) float32 {
	var r2 float32
	yi, yj := y.Row(i), y.Row(j)
	for d := range diff {
		v := yi[d] - yj[d]
		diff[d] = v
		r2 += v * v
	}
	r := float32(math.Sqrt(float64(r2)))
	q := 1 / (1 + a*powf(r, 2*b))
	return repulsionStrength * 2 * b / (1e-3 + r) * q * (1 - q)
}

func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
