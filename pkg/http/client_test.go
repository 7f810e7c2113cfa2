package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/astro-web3/bws-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostSendsJSONAndHeaders(t *testing.T) {
	var gotKey, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"live":true}`))
	}))
	t.Cleanup(server.Close)

	client := httpclient.NewClient(server.URL, time.Second)
	resp, err := client.Post(context.Background(), "/LivenessDetection",
		httpclient.WithHeader("X-Api-Key", "k"),
		httpclient.WithHeader("Reference-Number", ""),
		httpclient.WithBody(map[string]any{"liveImages": []any{}}),
	)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"live":true}`, string(resp.Body()))
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_DoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	resp, err := httpclient.NewClient(server.URL, time.Second).Get(context.Background(), "/healthz")
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
	assert.Equal(t, int32(1), calls.Load())
}
