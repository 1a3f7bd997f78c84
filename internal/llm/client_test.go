package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req completionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"[\"A\",\"B\"]"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-key", "test-model")
	out, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.NoError(t, err)
	assert.Equal(t, `["A","B"]`, out)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestComplete_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-model")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-model")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestComplete_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "test-model")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}
