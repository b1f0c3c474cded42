package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// SearchQuery is a marketplace catalog search.
type SearchQuery struct {
	Keywords string
	Category string
	From     int
	Size     int
}

// SearchIndex mirrors products into Elasticsearch and serves catalog search.
type SearchIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchIndex(es *elasticsearch.Client, index string, log logger.Logger) *SearchIndex {
	return &SearchIndex{es: es, index: index, logger: log}
}

// IndexProduct writes or overwrites the product document. Indexing runs
// after the Postgres write; the database stays the source of truth and a
// failed index write is reported but does not undo the create.
func (s *SearchIndex) IndexProduct(ctx context.Context, p *models.Product) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(doc),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.Status())
	}
	return nil
}

// Search runs a keyword search over the catalog with an optional category
// filter.
func (s *SearchIndex) Search(ctx context.Context, q SearchQuery) ([]*models.Product, error) {
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}
	if q.From < 0 {
		q.From = 0
	}

	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, errors.NewSearchQueryError(err.Error())
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &q.From,
		Size:  &q.Size,
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, errors.NewSearchQueryError(err.Error())
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		s.logger.Error("search request failed", map[string]interface{}{
			"status":   res.Status(),
			"response": string(raw),
		})
		return nil, errors.NewSearchQueryError(res.Status())
	}

	return parseSearchHits(res.Body)
}

func buildSearchQuery(q SearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"title^3", "description^2", "seoTags"},
				"type":   "best_fields",
			},
		})
	}

	if q.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": q.Category},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"createdAt": "desc"}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

func parseSearchHits(body io.Reader) ([]*models.Product, error) {
	var envelope struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, errors.NewSearchQueryError("decode search response: " + err.Error())
	}

	out := make([]*models.Product, 0, len(envelope.Hits.Hits))
	for i := range envelope.Hits.Hits {
		out = append(out, &envelope.Hits.Hits[i].Source)
	}
	return out, nil
}
