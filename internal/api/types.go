package api

import "reelmatch/internal/enrich"

// Card describes one recommended title in display order.
type Card struct {
	Rank     int              `json:"rank"`
	Title    string           `json:"title"`
	Score    *float64         `json:"score"`
	Metadata *enrich.Metadata `json:"metadata,omitempty"`
}

// RecommendationResponse is the result of one recommendation request.
type RecommendationResponse struct {
	Title     string `json:"title"`
	K         int    `json:"k"`
	Found     bool   `json:"found"`
	Enriched  bool   `json:"enriched"`
	RequestID string `json:"requestId,omitempty"`
	Results   []Card `json:"results"`
}

// TitleList is a filtered view of the catalog.
type TitleList struct {
	Query  string   `json:"query,omitempty"`
	Total  int      `json:"total"`
	Titles []string `json:"titles"`
}

// Health reports whether the service has artifacts loaded.
type Health struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
}
