// Package topk scores a query vector against a population of vectors
// by cosine similarity and returns the k best matches, grounded on
// original_source/crates/umap-core/src/search.rs (top_k_by_cosine).
package topk

import (
	"sort"

	"github.com/kestrelhq/semanticmap/internal/reduce/embed"
)

// Scored pairs a population index with its cosine similarity to the
// query vector.
type Scored struct {
	Index int
	Score float32
}

// ByCosine scores every vector in population against query and
// returns the top k by descending score, breaking ties on ascending
// population index. k larger than len(population) returns all scored
// entries.
func ByCosine(query []float32, population [][]float32, k int) []Scored {
	scored := make([]Scored, len(population))
	for i, v := range population {
		scored[i] = Scored{Index: i, Score: embed.CosineSimilarity(query, v)}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	if k < 0 {
		k = 0
	}
	return scored[:k]
}
