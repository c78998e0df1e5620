package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/embedding"
)

// fakeOllama answers /api/embeddings with a vector derived from the prompt length.
func fakeOllama(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embeddings":
			if calls != nil {
				atomic.AddInt32(calls, 1)
			}
			var req embedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if req.Prompt == "fail" {
				http.Error(w, "model not loaded", http.StatusInternalServerError)
				return
			}
			n := float64(len(req.Prompt))
			_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{n, n / 2, 1}})
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultConcurrency, svc.concurrency)
	assert.NoError(t, svc.Close())
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := fakeOllama(t, nil)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL + "/", Dimensions: 3})

	vector, err := svc.Embed(context.Background(), "four")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 2, 1}, vector)
}

func TestEmbeddingService_Embed_StatusError(t *testing.T) {
	server := fakeOllama(t, nil)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "fail")
	require.Error(t, err)

	var statusErr *embedding.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.True(t, statusErr.Temporary())
}

func TestEmbeddingService_EmbedBatch_KeepsOrder(t *testing.T) {
	var calls int32
	server := fakeOllama(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Concurrency: 2})

	texts := []string{"a", "bbb", "cc", "dddd"}
	vectors, err := svc.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vectors[i][0])
	}
	assert.Equal(t, int32(len(texts)), atomic.LoadInt32(&calls))
}

func TestEmbeddingService_EmbedBatch_Failure(t *testing.T) {
	server := fakeOllama(t, nil)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.EmbedBatch(context.Background(), []string{"ok", "fail"})
	assert.Error(t, err)
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := fakeOllama(t, nil)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))

	unreachable := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})
	assert.Error(t, unreachable.Ping(context.Background()))
}
