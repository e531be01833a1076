package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reelmatch/internal/artifact"
	"reelmatch/internal/catalog"
	"reelmatch/internal/similarity"
)

// GreekTitles and GreekRows form a small catalog with well-known rankings:
// Alpha's nearest neighbours are Beta (0.9) then Delta (0.5).
var (
	GreekTitles = []string{"Alpha", "Beta", "Gamma", "Delta"}
	GreekRows   = [][]float64{
		{1.0, 0.9, 0.2, 0.5},
		{0.9, 1.0, 0.3, 0.1},
		{0.2, 0.3, 1.0, 0.7},
		{0.5, 0.1, 0.7, 1.0},
	}
)

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}

// Catalog builds a catalog from titles.
func Catalog(t testing.TB, titles []string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.FromTitles(titles)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

// Matrix builds a similarity matrix from rows.
func Matrix(t testing.TB, rows [][]float64) *similarity.Matrix {
	t.Helper()
	m, err := similarity.FromRows(rows)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	return m
}

// WriteCatalogJSON writes titles as a records-array catalog.
func WriteCatalogJSON(t testing.TB, path string, titles []string) {
	t.Helper()
	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := artifact.EncodeCatalog(f, Catalog(t, titles)); err != nil {
		t.Fatalf("write catalog %s: %v", path, err)
	}
}

// WriteNPY writes rows as a float64 .npy matrix.
func WriteNPY(t testing.TB, path string, rows [][]float64) {
	t.Helper()
	mkdirFor(t, path)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := artifact.EncodeNPY(f, Matrix(t, rows)); err != nil {
		t.Fatalf("write npy %s: %v", path, err)
	}
}

// WriteBundle writes a SQLite bundle holding titles and rows.
func WriteBundle(t testing.TB, path string, titles []string, rows [][]float64) {
	t.Helper()
	if err := artifact.WriteBundle(context.Background(), path, Catalog(t, titles), Matrix(t, rows)); err != nil {
		t.Fatalf("write bundle %s: %v", path, err)
	}
}
