package narrative

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMClient_Complete(t *testing.T) {
	srv := newFakeChatServer(t, "Hello")
	client := NewLLMClient(testConfig(srv.URL + "/"))

	text, err := client.Complete(context.Background(), understandingRequest("I am 30"))
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	req := srv.lastReq.Load().(ChatRequest)
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "Analyze this insurance query: I am 30", req.Messages[1].Content)
}

func TestLLMClient_StatusError(t *testing.T) {
	srv := newFakeChatServer(t, "Hello")
	srv.status.Store(http.StatusInternalServerError)
	client := NewLLMClient(testConfig(srv.URL))

	_, err := client.Complete(context.Background(), connectionRequest())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
}

func TestLLMClient_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewLLMClient(testConfig(srv.URL)).Complete(context.Background(), connectionRequest())
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestLLMClient_CancelledContext(t *testing.T) {
	srv := newFakeChatServer(t, "Hello")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLLMClient(testConfig(srv.URL)).Complete(ctx, connectionRequest())
	assert.Error(t, err)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestLLMClient_RequestBudget(t *testing.T) {
	srv := newFakeChatServer(t, "Hello")
	cfg := testConfig(srv.URL)
	cfg.NarrativeRatePerMinute = 1
	client := NewLLMClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Complete(ctx, connectionRequest())
	require.NoError(t, err)

	_, err = client.Complete(ctx, connectionRequest())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), srv.hits.Load())
}
