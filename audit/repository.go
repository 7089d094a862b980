// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	pdp_model "github.com/toolgate/api/pdp/model"
)

const enforcementIndex = "enforcement-results"

type Repository interface {
	RecordEnforcementResult(ctx context.Context, result *pdp_model.EnforcementResult) (string, error)
	QueryEnforcementResults(ctx context.Context, filter pdp_model.EnforcementHistoryFilter) ([]pdp_model.EnforcementResult, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// RecordEnforcementResult indexes one enforcement result. Records are
// append-only; the correlation id doubles as the document id.
func (r *ElasticsearchRepository) RecordEnforcementResult(ctx context.Context, result *pdp_model.EnforcementResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	req := esapi.IndexRequest{
		Index:      enforcementIndex,
		DocumentID: result.CorrelationID,
		Body:       strings.NewReader(string(data)),
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("error indexing enforcement result: %s", res.String())
	}

	return result.CorrelationID, nil
}

// QueryEnforcementResults searches enforcement results matching the filter.
func (r *ElasticsearchRepository) QueryEnforcementResults(ctx context.Context, filter pdp_model.EnforcementHistoryFilter) ([]pdp_model.EnforcementResult, error) {
	must := []interface{}{}

	if !filter.From.IsZero() || !filter.To.IsZero() {
		rangeQuery := map[string]interface{}{}
		if !filter.From.IsZero() {
			rangeQuery["gte"] = filter.From.Format(time.RFC3339)
		}
		if !filter.To.IsZero() {
			rangeQuery["lte"] = filter.To.Format(time.RFC3339)
		}
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{"timestamp": rangeQuery},
		})
	}
	if filter.UserID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"user_id": filter.UserID},
		})
	}
	if filter.ToolSlug != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"tool_slug": filter.ToolSlug},
		})
	}
	if filter.Decision != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"decision": filter.Decision},
		})
	}

	size := filter.Limit
	if size <= 0 {
		size = 100
	}

	query := map[string]interface{}{
		"size": size,
		"sort": []interface{}{
			map[string]interface{}{"timestamp": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(enforcementIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching enforcement results: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	return parseEnforcementHits(rmap)
}

// parseEnforcementHits pulls the _source documents out of a search response.
// Elasticsearch proxies and partial failures can hand back bodies that decode
// fine but lack the hits envelope; those surface as errors, never panics.
func parseEnforcementHits(rmap map[string]interface{}) ([]pdp_model.EnforcementResult, error) {
	hitsWrapper, ok := rmap["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected search response: missing hits object")
	}
	hits, ok := hitsWrapper["hits"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected search response: missing hits list")
	}

	results := make([]pdp_model.EnforcementResult, 0, len(hits))
	for _, hit := range hits {
		doc, ok := hit.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unexpected search response: malformed hit entry")
		}
		data, err := json.Marshal(doc["_source"])
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode hit source: %w", err)
		}
		var result pdp_model.EnforcementResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode enforcement result: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}
