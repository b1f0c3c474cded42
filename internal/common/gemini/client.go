// Package gemini wraps the generative-text vendor behind a narrow
// text-in / structured-listing-out contract.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"

	"kalastra-backend/internal/common/config"
	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// promptTemplate is the fixed extraction instruction. The model is configured
// for a JSON-typed response and the prompt forbids any prose around the object.
const promptTemplate = `
Generate only a concise and enriched product description based on the following input.
Do not include suggestions, notes, headers, formatting descriptions or any content other than the final description.
Analyze this product info: "%s".

Output the following fields:
1. Title: A short, catchy product title.
2. Description: A rich, engaging product description.
3. Price: Suggested price range in INR.
4. SEO_Tags: An array of 6 SEO tags.
5. SEO_Tip: to increase reach.
6. Reach_Chance: Percentage increase in reach with SEO optimization, must be realistic number.
7. Category: The most relevant category for this product from the following options - [%s].
`

type Client struct {
	genai   *genai.Client
	model   *genai.GenerativeModel
	schema  *gojsonschema.Schema
	timeout time.Duration
	logger  logger.Logger
}

func NewClient(ctx context.Context, cfg config.GeminiConfig, log logger.Logger) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := genaiClient.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"

	schema, err := compileListingSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile listing schema: %w", err)
	}

	return &Client{
		genai:   genaiClient,
		model:   model,
		schema:  schema,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		logger:  log.WithFields(map[string]interface{}{"vendor": "gemini"}),
	}, nil
}

// Close releases the underlying vendor connection.
func (c *Client) Close() error {
	if c.genai != nil {
		return c.genai.Close()
	}
	return nil
}

// Enrich sends the combined narrative through the fixed extraction prompt and
// returns a complete StructuredListing, or a typed error. A response missing
// any of the seven fields is rejected, never passed through half-populated.
func (c *Client) Enrich(ctx context.Context, narrative string) (*models.StructuredListing, error) {
	if strings.TrimSpace(narrative) == "" {
		return nil, errors.NewInvalidListingInputError("narrative must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, narrative, quotedCategories())

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("enrichment call failed", map[string]interface{}{"error": err.Error()})
		return nil, errors.NewEnrichmentUnavailableError(err.Error())
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, errors.NewEnrichmentMalformedError("response contained no text candidates")
	}

	return c.parseListing(raw)
}

func (c *Client) parseListing(raw string) (*models.StructuredListing, error) {
	result, err := c.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, errors.NewEnrichmentMalformedError(fmt.Sprintf("invalid JSON: %v", err))
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, d := range result.Errors() {
			descs[i] = d.String()
		}
		return nil, errors.NewEnrichmentMalformedError(strings.Join(descs, "; "))
	}

	var listing models.StructuredListing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, errors.NewEnrichmentMalformedError(err.Error())
	}

	// Reach_Chance is a vendor estimate; bound it to a sane percentage.
	if rc, err := listing.ReachChance.Float(); err != nil || rc < 0 || rc > 100 {
		return nil, errors.NewEnrichmentMalformedError(
			fmt.Sprintf("Reach_Chance out of range: %q", listing.ReachChance))
	}

	return &listing, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}

func quotedCategories() string {
	quoted := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		quoted[i] = "'" + c + "'"
	}
	return strings.Join(quoted, ", ")
}

// compileListingSchema builds the schema every enrichment response must
// satisfy: all seven fields present, category from the fixed enumeration,
// numeric fields allowed as string or number.
func compileListingSchema() (*gojsonschema.Schema, error) {
	schemaMap := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"Title":       map[string]interface{}{"type": "string", "minLength": 1},
			"Description": map[string]interface{}{"type": "string", "minLength": 1},
			"Price":       map[string]interface{}{"type": []string{"string", "number"}},
			"Category":    map[string]interface{}{"type": "string", "enum": models.Categories},
			"SEO_Tags": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"SEO_Tip":      map[string]interface{}{"type": "string"},
			"Reach_Chance": map[string]interface{}{"type": []string{"string", "number"}},
		},
		"required": []string{
			"Title", "Description", "Price", "Category",
			"SEO_Tags", "SEO_Tip", "Reach_Chance",
		},
	}
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}
