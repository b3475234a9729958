package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/jarvis-assistant/backend/internal/config"
	"github.com/jarvis-assistant/backend/internal/entity"
	"go.uber.org/zap"
)

func testConfig(url string) config.EmbeddingConnectorConfig {
	return config.EmbeddingConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			Url:                   url,
			RequestTimeout:        2 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: time.Second,
		},
		Model:         "test-embed",
		EmbedEndpoint: "/api/embeddings",
		CacheTTL:      time.Minute,
	}
}

func TestEmbed(t *testing.T) {
	var captured entity.EmbeddingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(entity.EmbeddingResponse{Embedding: []float32{0.1, 0.2}})
	}))
	defer server.Close()

	c := NewConnector(testConfig(server.URL), zap.NewNop())

	vector, err := c.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !reflect.DeepEqual(vector, []float32{0.1, 0.2}) {
		t.Errorf("vector = %v", vector)
	}
	if captured.Model != "test-embed" || captured.Prompt != "some text" {
		t.Errorf("request = %+v", captured)
	}
}

func TestEmbedCachesByText(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(entity.EmbeddingResponse{Embedding: []float32{float32(calls)}})
	}))
	defer server.Close()

	c := NewConnector(testConfig(server.URL), zap.NewNop())

	first, err := c.Embed(context.Background(), "repeated text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	second, err := c.Embed(context.Background(), "repeated text")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("service calls = %d, want 1 (second hit served from cache)", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}

	if _, err := c.Embed(context.Background(), "different text"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("service calls = %d, want 2 after a new text", calls)
	}
}

func TestEmbedEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(entity.EmbeddingResponse{})
	}))
	defer server.Close()

	c := NewConnector(testConfig(server.URL), zap.NewNop())

	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Error("Embed() should fail on an empty vector")
	}
}

func TestEmbedServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model missing", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewConnector(testConfig(server.URL), zap.NewNop())

	if _, err := c.Embed(context.Background(), "text"); err == nil {
		t.Error("Embed() should surface the HTTP error")
	}
}
