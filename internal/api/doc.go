// Package api defines the transport-friendly view types shared by the CLI and
// HTTP layers, plus the Service façade that produces them.
//
// # Key Types
//
// Card: one ranked recommendation with its display metadata.
//
// RecommendationResponse: the ranked cards for one queried title. An unknown
// title yields Found=false and no cards rather than an error.
//
// TitleList: catalog titles matching a search query, used to populate the
// selection input.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript consumers. Non-finite scores are
// emitted as null since JSON cannot represent NaN or infinity. Enrichment is
// optional: a Service without an enricher returns cards without metadata.
package api
