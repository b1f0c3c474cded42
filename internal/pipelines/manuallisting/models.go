package manuallisting

import "kalastra-backend/internal/models"

// Input is the seller-typed listing form. Price and Type are authoritative;
// the text fields may be reworked by enrichment depending on configuration.
type Input struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	ArtisanID   string  `json:"artisanId,omitempty"`
}

// AISuggestions carries the enrichment fields that were not merged into the
// product itself, so the seller can still see them.
type AISuggestions struct {
	Category         string   `json:"category,omitempty"`
	SEOTags          []string `json:"seoTags"`
	SEOTip           string   `json:"seoTip"`
	ReachChance      *float64 `json:"reachChance,omitempty"`
	RecommendedPrice *float64 `json:"recommendedPrice,omitempty"`
	Applied          bool     `json:"applied"`
}

// Output is the pipeline result: the persisted product plus whatever AI
// enrichment produced (possibly defaults when enrichment was unavailable).
type Output struct {
	Product     *models.Product `json:"product"`
	Suggestions *AISuggestions  `json:"aiSuggestions"`
}

// fallbackSEOTip is returned when enrichment is unavailable so the response
// shape stays stable for the client.
const fallbackSEOTip = "Optimize tags for more reach"
