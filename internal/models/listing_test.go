package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_AcceptsStringOrNumber(t *testing.T) {
	var listing StructuredListing
	raw := `{
		"Title": "Vase", "Description": "Blue", "Price": 1200,
		"Category": "Home Decor", "SEO_Tags": ["vase"],
		"SEO_Tip": "tip", "Reach_Chance": "72%"
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &listing))

	assert.Equal(t, "1200", listing.Price.String())

	rc, err := listing.ReachChance.Float()
	require.NoError(t, err)
	assert.Equal(t, 72.0, rc)
}

func TestFlexString_Float_NonNumeric(t *testing.T) {
	f := FlexString("around fifty")
	_, err := f.Float()
	assert.Error(t, err)
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory("Jewelry"))
	assert.True(t, IsValidCategory("Home Decor"))
	assert.False(t, IsValidCategory("jewelry"))
	assert.False(t, IsValidCategory("Vehicles"))
}
