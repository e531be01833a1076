package recommend

import (
	"math"
	"testing"

	"reelmatch/internal/catalog"
	"reelmatch/internal/similarity"
)

func newRecommender(t *testing.T, titles []string, rows [][]float64) *Recommender {
	t.Helper()
	c, err := catalog.FromTitles(titles)
	if err != nil {
		t.Fatalf("FromTitles returned error: %v", err)
	}
	m, err := similarity.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows returned error: %v", err)
	}
	r, err := New(c, m)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return r
}

func greekRecommender(t *testing.T) *Recommender {
	return newRecommender(t,
		[]string{"Alpha", "Beta", "Gamma", "Delta"},
		[][]float64{
			{1.0, 0.9, 0.2, 0.5},
			{0.9, 1.0, 0.3, 0.1},
			{0.2, 0.3, 1.0, 0.7},
			{0.5, 0.1, 0.7, 1.0},
		},
	)
}

func titles(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecommendTopTwoExcludesSelf(t *testing.T) {
	r := greekRecommender(t)

	got := r.Recommend("Alpha", 2)
	if want := []string{"Beta", "Delta"}; !equalStrings(titles(got), want) {
		t.Fatalf("Recommend(Alpha, 2) = %v, want %v", titles(got), want)
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", got)
	}
	if got[0].Score != 0.9 || got[1].Score != 0.5 {
		t.Fatalf("unexpected scores: %+v", got)
	}
}

func TestRecommendUnknownTitleIsEmpty(t *testing.T) {
	r := greekRecommender(t)
	got := r.Recommend("Zeta", 5)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRecommendProperties(t *testing.T) {
	r := greekRecommender(t)
	for _, title := range r.Catalog().Titles() {
		for k := 1; k <= 5; k++ {
			got := r.Recommend(title, k)
			if len(got) > k {
				t.Fatalf("%s k=%d returned %d results", title, k, len(got))
			}
			for i, rec := range got {
				if rec.Title == title {
					t.Fatalf("%s recommended itself", title)
				}
				if i > 0 && rec.Score > got[i-1].Score {
					t.Fatalf("%s results not non-increasing: %+v", title, got)
				}
			}
		}
	}
}

func TestRecommendKLargerThanCatalog(t *testing.T) {
	r := greekRecommender(t)
	got := r.Recommend("Gamma", 10)
	if want := []string{"Delta", "Beta", "Alpha"}; !equalStrings(titles(got), want) {
		t.Fatalf("Recommend(Gamma, 10) = %v, want %v", titles(got), want)
	}
}

func TestRecommendNonPositiveK(t *testing.T) {
	r := greekRecommender(t)
	for _, k := range []int{0, -1} {
		if got := r.Recommend("Alpha", k); len(got) != 0 {
			t.Fatalf("k=%d returned %v", k, titles(got))
		}
	}
}

func TestRecommendTieBreaksOnLowerPosition(t *testing.T) {
	r := newRecommender(t,
		[]string{"Q", "A", "B", "C", "D"},
		[][]float64{
			{1, 0.4, 0.8, 0.4, 0.8},
			{0, 1, 0, 0, 0},
			{0, 0, 1, 0, 0},
			{0, 0, 0, 1, 0},
			{0, 0, 0, 0, 1},
		},
	)
	got := r.Recommend("Q", 4)
	if want := []string{"B", "D", "A", "C"}; !equalStrings(titles(got), want) {
		t.Fatalf("tie-break order = %v, want %v", titles(got), want)
	}
}

func TestRecommendRanksNonFiniteLast(t *testing.T) {
	r := newRecommender(t,
		[]string{"Q", "NaN", "Low", "PosInf", "High", "NegInf"},
		[][]float64{
			{1, math.NaN(), 0.1, math.Inf(1), 0.9, math.Inf(-1)},
			{0, 1, 0, 0, 0, 0},
			{0, 0, 1, 0, 0, 0},
			{0, 0, 0, 1, 0, 0},
			{0, 0, 0, 0, 1, 0},
			{0, 0, 0, 0, 0, 1},
		},
	)
	got := r.Recommend("Q", 5)
	if want := []string{"High", "Low", "NaN", "PosInf", "NegInf"}; !equalStrings(titles(got), want) {
		t.Fatalf("non-finite ordering = %v, want %v", titles(got), want)
	}
	if got := r.Recommend("Q", 2); !equalStrings(titles(got), []string{"High", "Low"}) {
		t.Fatalf("finite scores should fill the top slots, got %v", titles(got))
	}
}

func TestRecommendDuplicateTitlesUseFirstRow(t *testing.T) {
	r := newRecommender(t,
		[]string{"Dup", "X", "Dup", "Y"},
		[][]float64{
			{1, 0.9, 0.1, 0.2},
			{0, 1, 0, 0},
			{0.1, 0.1, 1, 0.9},
			{0, 0, 0, 1},
		},
	)
	got := r.Recommend("Dup", 1)
	if want := []string{"X"}; !equalStrings(titles(got), want) {
		t.Fatalf("duplicate lookup = %v, want %v", titles(got), want)
	}
}

func TestNewRejectsDimensionMismatch(t *testing.T) {
	c, _ := catalog.FromTitles([]string{"A", "B", "C"})
	m, _ := similarity.FromRows([][]float64{{1, 0}, {0, 1}})
	if _, err := New(c, m); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if _, err := New(nil, m); err == nil {
		t.Fatal("expected nil catalog error")
	}
}
