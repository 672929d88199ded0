package umap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/kestrelhq/semanticmap/internal/reduce/matrix"
)

func TestReduceCosineEmptyInput(t *testing.T) {
	m := matrix.New(0, 8)
	y, err := ReduceCosine(m, 2, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y.Rows != 0 || y.Cols != 2 {
		t.Fatalf("expected 0x2 matrix, got %dx%d", y.Rows, y.Cols)
	}
}

func TestReduceCosineDegenerateSmallN(t *testing.T) {
	m := matrix.FromRows([][]float32{{1, 0, 0}, {0, 1, 0}})
	y, err := ReduceCosine(m, 2, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y.Rows != 2 || y.Cols != 2 {
		t.Fatalf("expected 2x2 matrix, got %dx%d", y.Rows, y.Cols)
	}
	for _, v := range y.Data {
		if v != 0 {
			t.Errorf("expected all-zero layout for n<=2, got %f", v)
		}
	}
}

func TestReduceCosineInvalidDims(t *testing.T) {
	m := matrix.FromRows([][]float32{{1, 0}, {0, 1}, {1, 1}})
	if _, err := ReduceCosine(m, 1, DefaultParams()); err == nil {
		t.Error("expected ShapeError for dims=1")
	}
	if _, err := ReduceCosine(m, 4, DefaultParams()); err == nil {
		t.Error("expected ShapeError for dims=4")
	}
}

func TestReduceCosineInvalidParams(t *testing.T) {
	m := matrix.FromRows([][]float32{{1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}})
	p := DefaultParams()
	p.NNeighbors = 1
	if _, err := ReduceCosine(m, 2, p); err == nil {
		t.Error("expected ConfigError for n_neighbors < 2")
	}
}

// S1: identical rows collapse close together.
func TestReduceCosineIdenticalRowsStayClose(t *testing.T) {
	row := []float32{1, 0, 0, 0, 0}
	rows := make([][]float32, 5)
	for i := range rows {
		rows[i] = append([]float32{}, row...)
	}
	m := matrix.FromRows(rows)

	p := DefaultParams()
	p.NNeighbors = 4
	p.NEpochs = 50
	y, err := ReduceCosine(m, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < y.Rows; i++ {
		dx := y.At(0, 0) - y.At(i, 0)
		dy := y.At(0, 1) - y.At(i, 1)
		dist := math.Sqrt(float64(dx*dx + dy*dy))
		if dist > 1e-2 {
			t.Errorf("row %d too far from row 0: dist=%f", i, dist)
		}
	}
}

// S2: two well-separated clusters remain well separated after reduction.
func TestReduceCosineTwoClustersSeparate(t *testing.T) {
	rows := make([][]float32, 20)
	for i := 0; i < 10; i++ {
		v := make([]float32, 5)
		v[0] = 1
		rows[i] = v
	}
	for i := 10; i < 20; i++ {
		v := make([]float32, 5)
		v[1] = 1
		rows[i] = v
	}
	m := matrix.FromRows(rows)

	p := DefaultParams()
	p.NEpochs = 300
	y, err := ReduceCosine(m, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meanA := meanOf(y, 0, 10)
	meanB := meanOf(y, 10, 20)
	dist := euclid(meanA, meanB)

	stdA := stddevOf(y, 0, 10, meanA)
	stdB := stddevOf(y, 10, 20, meanB)
	within := math.Max(stdA, stdB)
	if within == 0 {
		within = 1e-6
	}

	if dist < 2*within {
		t.Errorf("clusters not well separated: between=%f within=%f", dist, within)
	}
}

func meanOf(y matrix.Matrix, from, to int) []float64 {
	mean := make([]float64, y.Cols)
	for i := from; i < to; i++ {
		row := y.Row(i)
		for d := range row {
			mean[d] += float64(row[d])
		}
	}
	n := float64(to - from)
	for d := range mean {
		mean[d] /= n
	}
	return mean
}

func stddevOf(y matrix.Matrix, from, to int, mean []float64) float64 {
	var sum float64
	for i := from; i < to; i++ {
		row := y.Row(i)
		var d2 float64
		for d := range row {
			diff := float64(row[d]) - mean[d]
			d2 += diff * diff
		}
		sum += d2
	}
	return math.Sqrt(sum / float64(to-from))
}

func euclid(a, b []float64) float64 {
	var sum float64
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// S3: determinism across two runs with the same seed.
func TestReduceCosineDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rows := make([][]float32, 30)
	for i := range rows {
		v := make([]float32, 16)
		for d := range v {
			v[d] = rng.Float32()
		}
		rows[i] = v
	}
	m := matrix.FromRows(rows)

	p := DefaultParams()
	p.RandomState = 42
	p.NEpochs = 50

	y1, err := ReduceCosine(m, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y2, err := ReduceCosine(m, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range y1.Data {
		if y1.Data[i] != y2.Data[i] {
			t.Fatalf("outputs diverge at index %d: %f vs %f", i, y1.Data[i], y2.Data[i])
		}
	}
}
