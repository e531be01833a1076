package similarity_test

import (
	"math"
	"testing"

	"reelmatch/internal/similarity"
)

func TestNewValidatesLength(t *testing.T) {
	if _, err := similarity.New(2, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := similarity.New(-1, nil); err == nil {
		t.Fatal("expected negative dimension error")
	}
	m, err := similarity.New(0, nil)
	if err != nil || m.Dim() != 0 {
		t.Fatalf("empty matrix should be valid: %v", err)
	}
}

func TestFromRowsAndAccessors(t *testing.T) {
	m, err := similarity.FromRows([][]float64{
		{1, 0.5},
		{0.25, 1},
	})
	if err != nil {
		t.Fatalf("FromRows returned error: %v", err)
	}
	if m.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", m.Dim())
	}
	row, ok := m.Row(1)
	if !ok || row[0] != 0.25 || row[1] != 1 {
		t.Fatalf("unexpected row 1: %v %v", row, ok)
	}
	if row0, _ := m.Row(0); row0[1] != 0.5 {
		t.Fatalf("unexpected row 0: %v", row0)
	}
	if _, ok := m.Row(2); ok {
		t.Fatal("expected out of range row")
	}
}

func TestFromRowsRejectsRagged(t *testing.T) {
	if _, err := similarity.FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Fatal("expected ragged row error")
	}
}

func TestNonFinite(t *testing.T) {
	m, err := similarity.New(2, []float64{1, math.NaN(), math.Inf(1), math.Inf(-1)})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got := m.NonFinite(); got != 3 {
		t.Fatalf("expected 3 non-finite values, got %d", got)
	}
}
