package topk

import (
	"math"
	"math/rand"
	"testing"
)

func TestByCosineSortedDescending(t *testing.T) {
	population := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{-1, 0, 0},
	}
	query := []float32{1, 0, 0}

	results := ByCosine(query, population, 4)
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted descending at index %d", i)
		}
	}
}

func TestByCosineTruncatesToK(t *testing.T) {
	population := make([][]float32, 10)
	for i := range population {
		population[i] = []float32{float32(i), 1, 0}
	}
	results := ByCosine([]float32{1, 0, 0}, population, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestByCosineKLargerThanPopulation(t *testing.T) {
	population := [][]float32{{1, 0}, {0, 1}}
	results := ByCosine([]float32{1, 0}, population, 100)
	if len(results) != 2 {
		t.Fatalf("expected all 2 results, got %d", len(results))
	}
}

// S6: query equal to a stored vector returns that vector first with
// score ~1.
func TestByCosineExactMatchScoresOne(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	population := make([][]float32, 100)
	for i := range population {
		v := make([]float32, 16)
		for d := range v {
			v[d] = rng.Float32()*2 - 1
		}
		population[i] = v
	}

	query := append([]float32{}, population[37]...)
	results := ByCosine(query, population, 5)

	if results[0].Index != 37 {
		t.Fatalf("expected index 37 first, got %d", results[0].Index)
	}
	if math.Abs(float64(results[0].Score)-1.0) > 1e-5 {
		t.Errorf("expected score ~1.0, got %f", results[0].Score)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
}
