package products

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery_KeywordsAndCategory(t *testing.T) {
	q := buildSearchQuery(SearchQuery{Keywords: "willow basket", Category: "Crafts"})

	boolQuery, ok := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	require.True(t, ok)

	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "willow basket", multiMatch["query"])
	assert.Contains(t, multiMatch["fields"], "title^3")

	filter := boolQuery["filter"].([]interface{})
	require.Len(t, filter, 1)
	term := filter[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "Crafts", term["category"])
}

func TestBuildSearchQuery_NoFiltersFallsBackToMatchAll(t *testing.T) {
	q := buildSearchQuery(SearchQuery{})

	query := q["query"].(map[string]interface{})
	_, hasMatchAll := query["match_all"]
	assert.True(t, hasMatchAll)
}

func TestBuildSearchQuery_CategoryOnly(t *testing.T) {
	q := buildSearchQuery(SearchQuery{Category: "Jewelry"})

	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	_, hasMust := boolQuery["must"]
	assert.False(t, hasMust)
	assert.Len(t, boolQuery["filter"], 1)
}

func TestParseSearchHits(t *testing.T) {
	body := `{
		"hits": {
			"hits": [
				{"_source": {"id": "prod-1", "title": "Handwoven Willow Basket", "price": 45, "type": "sell", "seoTags": ["basket"]}},
				{"_source": {"id": "prod-2", "title": "Carved Chess Set", "price": 120, "type": "portfolio", "seoTags": []}}
			]
		}
	}`

	got, err := parseSearchHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "prod-1", got[0].ID)
	assert.Equal(t, 45.0, got[0].Price)
	assert.Equal(t, "Carved Chess Set", got[1].Title)
}

func TestParseSearchHits_MalformedBody(t *testing.T) {
	_, err := parseSearchHits(strings.NewReader("<html>gateway error</html>"))
	require.Error(t, err)
}
