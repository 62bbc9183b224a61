package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"factory-matching/internal/models"
)

// maxSearchHits bounds a single catalogue search; the partner network is far smaller.
const maxSearchHits = 1000

const factoryIndexMapping = `{
	"mappings": {
		"properties": {
			"id":             {"type": "keyword"},
			"name":           {"type": "text"},
			"region":         {"type": "keyword"},
			"city":           {"type": "keyword"},
			"certifications": {"type": "keyword"},
			"specialties":    {"type": "keyword"},
			"status":         {"type": "keyword"}
		}
	}
}`

// ElasticFactoryRepository serves the factory catalogue from a search index.
type ElasticFactoryRepository struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticFactoryRepository(client *elasticsearch.Client, index string) *ElasticFactoryRepository {
	return &ElasticFactoryRepository{client: client, index: index}
}

// EnsureIndex creates the index with its keyword mapping when it does not exist.
func (r *ElasticFactoryRepository) EnsureIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = r.client.Indices.Create(
		r.index,
		r.client.Indices.Create.WithBody(bytes.NewReader([]byte(factoryIndexMapping))),
		r.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("create index "+r.index, res)
	}
	return nil
}

func (r *ElasticFactoryRepository) List(ctx context.Context) ([]models.Factory, error) {
	return r.search(ctx, map[string]interface{}{"match_all": map[string]interface{}{}})
}

func (r *ElasticFactoryRepository) ListByRegion(ctx context.Context, region string) ([]models.Factory, error) {
	if region == "" {
		return r.List(ctx)
	}
	return r.search(ctx, map[string]interface{}{
		"term": map[string]interface{}{"region": region},
	})
}

func (r *ElasticFactoryRepository) Get(ctx context.Context, id string) (*models.Factory, error) {
	res, err := r.client.Get(r.index, id, r.client.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", r.index, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		return nil, responseError("get "+id, res)
	}

	var doc struct {
		Found  bool           `json:"found"`
		Source models.Factory `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode factory %s: %w", id, err)
	}
	if !doc.Found {
		return nil, ErrNotFound
	}
	return &doc.Source, nil
}

// Save indexes f under its ID and waits for it to become searchable.
func (r *ElasticFactoryRepository) Save(ctx context.Context, f models.Factory) error {
	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal factory %s: %w", f.ID, err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithDocumentID(f.ID),
		r.client.Index.WithRefresh("wait_for"),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index factory %s: %w", f.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index factory "+f.ID, res)
	}
	return nil
}

func (r *ElasticFactoryRepository) search(ctx context.Context, query map[string]interface{}) ([]models.Factory, error) {
	body, err := json.Marshal(map[string]interface{}{
		"query": query,
		"size":  maxSearchHits,
	})
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search "+r.index, res)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Factory `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]models.Factory, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		out = append(out, hit.Source)
	}
	sortFactories(out)
	return out, nil
}

func responseError(op string, res *esapi.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), bytes.TrimSpace(msg))
}
