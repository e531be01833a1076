// Package recommend ranks catalog titles by precomputed similarity.
//
// Ranking rules:
//   - The queried item is never part of its own results.
//   - Finite scores sort descending; equal scores keep the lower position first.
//   - NaN and infinite scores are treated as malformed and placed after every
//     finite score, ordered by position among themselves.
//   - A title missing from the catalog yields an empty result, not an error.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"reelmatch/internal/catalog"
	"reelmatch/internal/similarity"
)

// DefaultK is the result count used when a caller does not choose one.
const DefaultK = 5

// Recommendation is one ranked result.
type Recommendation struct {
	Rank     int     `json:"rank"`
	Position int     `json:"position"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
}

// Recommender is a pure function of an immutable catalog and matrix. It is
// safe for concurrent use.
type Recommender struct {
	catalog *catalog.Catalog
	matrix  *similarity.Matrix
}

// New pairs a catalog with its similarity matrix. The matrix dimension must
// equal the catalog size.
func New(c *catalog.Catalog, m *similarity.Matrix) (*Recommender, error) {
	if c == nil || m == nil {
		return nil, errors.New("recommender requires a catalog and a similarity matrix")
	}
	if m.Dim() != c.Len() {
		return nil, fmt.Errorf("similarity dimension %d does not match catalog size %d", m.Dim(), c.Len())
	}
	return &Recommender{catalog: c, matrix: m}, nil
}

// Catalog returns the catalog backing the recommender.
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}

// Recommend returns up to k titles most similar to title. When fewer than k
// other items exist, all of them are returned.
func (r *Recommender) Recommend(title string, k int) []Recommendation {
	if k <= 0 {
		return []Recommendation{}
	}
	pos, ok := r.catalog.Lookup(title)
	if !ok {
		return []Recommendation{}
	}
	row, ok := r.matrix.Row(pos)
	if !ok {
		return []Recommendation{}
	}

	ranked := rank(row, pos)
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	out := make([]Recommendation, 0, len(ranked))
	for idx, cand := range ranked {
		name, _ := r.catalog.Title(cand.position)
		out = append(out, Recommendation{
			Rank:     idx + 1,
			Position: cand.position,
			Title:    name,
			Score:    cand.score,
		})
	}
	return out
}

type candidate struct {
	position int
	score    float64
}

// rank orders every position of row except exclude by the ranking rules of
// this package.
func rank(row []float64, exclude int) []candidate {
	candidates := make([]candidate, 0, len(row))
	for position, score := range row {
		if position == exclude {
			continue
		}
		candidates = append(candidates, candidate{position: position, score: score})
	}
	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

func compareCandidates(a, b candidate) int {
	aBad, bBad := malformed(a.score), malformed(b.score)
	switch {
	case aBad && !bBad:
		return 1
	case !aBad && bBad:
		return -1
	case !aBad && !bBad && a.score != b.score:
		if a.score > b.score {
			return -1
		}
		return 1
	}
	return a.position - b.position
}

func malformed(score float64) bool {
	return math.IsNaN(score) || math.IsInf(score, 0)
}
