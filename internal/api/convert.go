package api

import (
	"math"

	"reelmatch/internal/enrich"
	"reelmatch/internal/recommend"
)

// FromRecommendations pairs ranked results with metadata. metas may be nil,
// otherwise it must align with recs.
func FromRecommendations(recs []recommend.Recommendation, metas []enrich.Metadata) []Card {
	cards := make([]Card, len(recs))
	for idx, rec := range recs {
		card := Card{
			Rank:  rec.Rank,
			Title: rec.Title,
			Score: finiteScore(rec.Score),
		}
		if idx < len(metas) {
			meta := metas[idx]
			card.Metadata = &meta
		}
		cards[idx] = card
	}
	return cards
}

func finiteScore(score float64) *float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil
	}
	return &score
}
