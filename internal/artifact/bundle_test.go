package artifact_test

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"reelmatch/internal/artifact"
	"reelmatch/internal/testsupport"
)

func TestBundleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")
	rows := [][]float64{{1, math.Inf(1)}, {0.25, 1}}
	testsupport.WriteBundle(t, path, []string{"Heat", "Ronin"}, rows)

	c, m, err := artifact.ReadBundle(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadBundle returned error: %v", err)
	}
	if c.Len() != 2 || m.Dim() != 2 {
		t.Fatalf("unexpected shape: %d items, dim %d", c.Len(), m.Dim())
	}
	if !math.IsInf(score(m, 0, 1), 1) || score(m, 1, 0) != 0.25 {
		t.Fatalf("unexpected scores: %v", m.RowMajor())
	}

	// Rewriting replaces the previous bundle.
	testsupport.WriteBundle(t, path, []string{"Solo"}, [][]float64{{1}})
	c, _, err = artifact.ReadBundle(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadBundle after rewrite returned error: %v", err)
	}
	if title, _ := c.Title(0); c.Len() != 1 || title != "Solo" {
		t.Fatalf("expected rewritten bundle, got %+v", c.Items())
	}
}

func TestWriteBundleRejectsMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")
	c := testsupport.Catalog(t, []string{"A", "B"})
	m := testsupport.Matrix(t, [][]float64{{1}})
	if err := artifact.WriteBundle(context.Background(), path, c, m); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestReadBundleDetectsShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.db")
	testsupport.WriteBundle(t, path, testsupport.GreekTitles, testsupport.GreekRows)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	if _, err := db.Exec("UPDATE similarity SET scores = ? WHERE position = 1", []byte{1, 2, 3}); err != nil {
		t.Fatalf("corrupt bundle: %v", err)
	}
	_ = db.Close()

	if _, _, err := artifact.ReadBundle(context.Background(), path); err == nil {
		t.Fatal("expected error for short similarity row")
	}
}

func TestReadBundleMissingFile(t *testing.T) {
	if _, _, err := artifact.ReadBundle(context.Background(), filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Fatal("expected error for missing bundle")
	}
}
