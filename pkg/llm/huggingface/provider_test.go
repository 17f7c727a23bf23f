package huggingface

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAPIKey = "test-token"

func TestNewEmbeddingProvider(t *testing.T) {
	if _, err := NewEmbeddingProvider(map[string]any{}); err == nil {
		t.Error("expected error for missing api_key, got nil")
	}

	provider, err := NewEmbeddingProvider(map[string]any{
		"api_key":     testAPIKey,
		"embed_model": "sentence-transformers/all-MiniLM-L6-v2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != ProviderName {
		t.Errorf("expected name %s, got %s", ProviderName, provider.Name())
	}
}

func TestEmbedSentenceLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testAPIKey {
			t.Errorf("unexpected Authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[0.1, 0.2, 0.3], [0.4, 0.5, 0.6]]`))
	}))
	defer server.Close()

	provider, err := NewEmbeddingProvider(map[string]any{
		"api_key":  testAPIKey,
		"base_url": server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	embeddings, err := provider.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	if len(embeddings[0]) != 3 {
		t.Errorf("expected dimension 3, got %d", len(embeddings[0]))
	}
	if embeddings[1][2] != 0.6 {
		t.Errorf("expected 0.6, got %f", embeddings[1][2])
	}
}

func TestEmbedTokenLevelMeanPooling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// One input, two tokens of dimension 2
		_, _ = w.Write([]byte(`[[[1.0, 2.0], [3.0, 4.0]]]`))
	}))
	defer server.Close()

	provider, err := NewEmbeddingProvider(map[string]any{
		"api_key":  testAPIKey,
		"base_url": server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	embeddings, err := provider.Embed(context.Background(), []string{"text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 1 {
		t.Fatalf("expected 1 embedding, got %d", len(embeddings))
	}
	if math.Abs(float64(embeddings[0][0])-2.0) > 1e-6 {
		t.Errorf("expected mean 2.0, got %f", embeddings[0][0])
	}
	if math.Abs(float64(embeddings[0][1])-3.0) > 1e-6 {
		t.Errorf("expected mean 3.0, got %f", embeddings[0][1])
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	provider := NewProviderWithConfig(DefaultConfig())
	embeddings, err := provider.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", embeddings)
	}
}

func TestEmbedSingle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[0.5, 0.5]]`))
	}))
	defer server.Close()

	provider, err := NewEmbeddingProvider(map[string]any{
		"api_key":  testAPIKey,
		"base_url": server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	embedding, err := provider.EmbedSingle(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embedding) != 2 {
		t.Errorf("expected dimension 2, got %d", len(embedding))
	}
}
