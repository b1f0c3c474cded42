package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Categories is the fixed set of categories a listing may be assigned to.
// The enrichment prompt instructs the model to pick one of these.
var Categories = []string{
	"Art", "Crafts", "Jewelry", "Clothing", "Home Decor",
	"Toys", "Books", "Music", "Electronics", "Furniture",
}

// IsValidCategory reports whether c is one of the fixed listing categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// FlexString holds a value the enrichment vendor may return either as a JSON
// string or as a JSON number ("500" vs 500, "23%" vs 23). The raw value is
// preserved; no reformatting beyond the string coercion.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string {
	return string(f)
}

// Float parses the value as a number, tolerating a trailing percent sign.
func (f FlexString) Float() (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(string(f)), "%"))
	return strconv.ParseFloat(s, 64)
}

// StructuredListing is the normalized product listing produced by enrichment.
// All seven vendor-generated fields must be present; a listing with missing
// fields is rejected at the adapter, never passed through half-populated.
type StructuredListing struct {
	Title       string     `json:"Title"`
	Description string     `json:"Description"`
	Price       FlexString `json:"Price"`
	Quantity    int        `json:"Quantity,omitempty"`
	Category    string     `json:"Category"`
	SEOTags     []string   `json:"SEO_Tags"`
	SEOTip      string     `json:"SEO_Tip"`
	ReachChance FlexString `json:"Reach_Chance"`
}
