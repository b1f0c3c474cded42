package manuallisting

import (
	"strings"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/validation"
	"kalastra-backend/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// GetInputSchema returns the JSON schema for manual listing submissions.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"title": {
				Type:        "string",
				Description: "Listing title",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(200),
			},
			"description": {
				Type:        "string",
				Description: "Listing description",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(5000),
			},
			"price": {
				Type:        "number",
				Description: "Asking price",
				Minimum:     floatPtr(0),
			},
			"type": {
				Type:        "string",
				Description: "Listing kind",
				Enum:        []string{models.ProductTypePortfolio, models.ProductTypeSell},
			},
			"artisanId": {
				Type:        "string",
				Description: "Owning artisan identifier",
			},
		},
		Required: []string{"title", "description", "price", "type"},
	}
}

// ValidateInput checks the decoded request body against the input schema and
// returns a typed validation error listing every violation.
func ValidateInput(body map[string]interface{}) error {
	result := validation.ValidateInput(body, GetInputSchema())
	if !result.Valid {
		return errors.NewInvalidListingInputError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
