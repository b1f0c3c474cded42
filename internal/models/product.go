package models

import "time"

// Product types. "portfolio" items are showcased only; "sell" items are
// purchasable on the marketplace.
const (
	ProductTypePortfolio = "portfolio"
	ProductTypeSell      = "sell"
)

// IsValidProductType reports whether t is a known product type.
func IsValidProductType(t string) bool {
	return t == ProductTypePortfolio || t == ProductTypeSell
}

// Product is the persisted marketplace record. It carries the fields of a
// StructuredListing plus ownership and lifecycle metadata.
type Product struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Quantity         int       `json:"quantity"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	SEOTags          []string  `json:"seoTags"`
	ReachChance      *float64  `json:"reachChance,omitempty"`
	RecommendedPrice *float64  `json:"recommendedPrice,omitempty"`
	SEOTip           string    `json:"seoTip,omitempty"`
	Type             string    `json:"type"`
	ArtisanID        string    `json:"artisanId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
