package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElastic answers the handful of document APIs the repository uses.
type fakeElastic struct {
	mu        sync.Mutex
	indexed   bool
	docs      map[string]json.RawMessage
	failIndex bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`)

	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.indexed {
			w.WriteHeader(http.StatusNotFound)
		}

	case r.Method == http.MethodPut && len(parts) == 1:
		f.indexed = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)

	case r.Method == http.MethodPut && len(parts) == 3 && parts[1] == "_doc":
		if f.failIndex {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":"es_rejected_execution_exception"}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)

	case r.Method == http.MethodGet && len(parts) == 3 && parts[1] == "_doc":
		doc, ok := f.docs[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"found":false}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"found": true, "_source": doc})

	case len(parts) == 2 && parts[1] == "_search":
		var req struct {
			Query struct {
				Term map[string]string `json:"term"`
			} `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		hits := []map[string]interface{}{}
		for _, doc := range f.docs {
			var src struct {
				Region string `json:"region"`
			}
			_ = json.Unmarshal(doc, &src)
			if region, ok := req.Query.Term["region"]; ok && region != src.Region {
				continue
			}
			hits = append(hits, map[string]interface{}{"_source": doc})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{"hits": hits},
		})

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func setupElastic(t *testing.T) (*ElasticFactoryRepository, *fakeElastic) {
	fake := &fakeElastic{docs: map[string]json.RawMessage{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return NewElasticFactoryRepository(client, "factories"), fake
}

func TestElasticFactoryRepository(t *testing.T) {
	repo, _ := setupElastic(t)
	exerciseFactories(t, repo)
}

func TestElasticFactoryRepository_EnsureIndex(t *testing.T) {
	repo, fake := setupElastic(t)

	require.NoError(t, repo.EnsureIndex(context.Background()))
	assert.True(t, fake.indexed)

	// second call sees the existing index
	require.NoError(t, repo.EnsureIndex(context.Background()))
}

func TestElasticFactoryRepository_IndexRejected(t *testing.T) {
	repo, fake := setupElastic(t)
	fake.failIndex = true

	err := repo.Save(context.Background(), sampleFactory("factory-001", "Gyeonggi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
