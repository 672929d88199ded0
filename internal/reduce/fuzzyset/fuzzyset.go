// Package fuzzyset builds the directed membership strengths of the
// high-dimensional fuzzy simplicial set from calibrated k-NN distances
// and symmetrizes them into an undirected edge set, grounded on
// original_source/crates/umap-core/src/reduction.rs (the inline
// membership loop and the `symmetrize` function).
package fuzzyset

import (
	"math"
	"sort"
)

// FuzzySet is a sparse edge set stored as three parallel slices.
type FuzzySet struct {
	Rows []int
	Cols []int
	Vals []float32
}

// Build computes directed membership p_ij = exp(-max(d-rho_i,0)/(sigma_i+eps))
// for every stored (i, neighbor j, distance d) triple, skipping self-edges.
func Build(indices [][]int, distances [][]float32, rho, sigma []float32) FuzzySet {
	var fs FuzzySet
	for i := range indices {
		for nn, j := range indices[i] {
			if j == i {
				continue
			}
			d := distances[i][nn]
			diff := d - rho[i]
			var p float32
			if diff > 0 {
				p = float32(math.Exp(-float64(diff) / float64(sigma[i]+1e-8)))
			} else {
				p = 1
			}
			fs.Rows = append(fs.Rows, i)
			fs.Cols = append(fs.Cols, j)
			fs.Vals = append(fs.Vals, p)
		}
	}
	return fs
}

// Symmetrize combines directed memberships p_ij and p_ji into a
// fuzzy-union weight and emits both (i,j) and (j,i) for every edge with
// non-zero weight, so that SGD can update both endpoints directly.
// mix is set_op_mix_ratio in [0,1]. Edges are emitted in ascending
// (i,j) order: optimizeLayout consumes this list sequentially against a
// single shared PRNG, so an order that varied with Go's randomized map
// iteration would make ReduceCosine's output nondeterministic for a
// fixed random_state.
func Symmetrize(fs FuzzySet, mix float32) FuzzySet {
	directed := make(map[[2]int]float32, len(fs.Rows))
	for idx := range fs.Rows {
		key := [2]int{fs.Rows[idx], fs.Cols[idx]}
		directed[key] = fs.Vals[idx]
	}

	pairKeys := make([][2]int, 0, len(directed))
	seen := make(map[[2]int]bool, len(directed))
	for key := range directed {
		i, j := key[0], key[1]
		pairKey := key
		if i > j {
			pairKey = [2]int{j, i}
		}
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true
		pairKeys = append(pairKeys, pairKey)
	}
	sort.Slice(pairKeys, func(a, b int) bool {
		if pairKeys[a][0] != pairKeys[b][0] {
			return pairKeys[a][0] < pairKeys[b][0]
		}
		return pairKeys[a][1] < pairKeys[b][1]
	})

	out := FuzzySet{}
	for _, key := range pairKeys {
		i, j := key[0], key[1]
		reverseKey := [2]int{j, i}

		pij := directed[key]
		pji := directed[reverseKey]
		if pij == 0 && pji == 0 {
			continue
		}

		prod := pij * pji
		fuzzy := pij + pji - prod
		avg := 0.5 * (pij + pji)
		v := mix*fuzzy + (1-mix)*avg
		if v <= 0 {
			continue
		}

		out.Rows = append(out.Rows, i, j)
		out.Cols = append(out.Cols, j, i)
		out.Vals = append(out.Vals, v, v)
	}
	return out
}
