package enrich

import (
	"strings"

	"reelmatch/internal/config"
	"reelmatch/internal/omdb"
	"reelmatch/internal/textutil"
)

const (
	// RatingUnknown is shown when no rating is available.
	RatingUnknown = "N/A"
	// PlotUnavailable is shown when the provider has no plot for a title.
	PlotUnavailable = "Plot not available."
	// PlotFetchFailed is shown when the lookup itself failed.
	PlotFetchFailed = "Could not fetch plot."
)

// Metadata is the display data attached to one recommendation.
type Metadata struct {
	PosterURL string `json:"posterUrl"`
	Rating    string `json:"rating"`
	Plot      string `json:"plot"`
}

// Shaping controls how provider values are turned into Metadata.
type Shaping struct {
	PosterPlaceholder string
	PosterError       string
	PlotMaxLength     int
}

// ShapingFromConfig reads the [omdb] display settings.
func ShapingFromConfig(cfg *config.Config) Shaping {
	return Shaping{
		PosterPlaceholder: cfg.OMDb.PosterPlaceholder,
		PosterError:       cfg.OMDb.PosterError,
		PlotMaxLength:     cfg.OMDb.PlotMaxLength,
	}
}

func defaultShaping() Shaping {
	cfg := config.Default()
	return ShapingFromConfig(&cfg)
}

// Fallback is the value substituted for a failed lookup.
func (s Shaping) Fallback() Metadata {
	return Metadata{
		PosterURL: s.PosterError,
		Rating:    RatingUnknown,
		Plot:      PlotFetchFailed,
	}
}

// Shape converts a provider response into Metadata. A nil or not-found
// response yields every default.
func (s Shaping) Shape(resp *omdb.Response) Metadata {
	meta := Metadata{
		PosterURL: s.PosterPlaceholder,
		Rating:    RatingUnknown,
		Plot:      PlotUnavailable,
	}
	if !resp.Found() {
		return meta
	}
	if poster := present(resp.Poster); poster != "" {
		meta.PosterURL = poster
	}
	if rating := strings.TrimSpace(resp.ImdbRating); rating != "" {
		meta.Rating = rating
	}
	if plot := present(resp.Plot); plot != "" {
		meta.Plot = textutil.Truncate(plot, s.PlotMaxLength)
	}
	return meta
}

// present returns value as sent, or "" when it is blank or the provider
// marked it N/A.
func present(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, omdb.NotAvailable) {
		return ""
	}
	return value
}
