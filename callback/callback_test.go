package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deplai/scanctl/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostSendsRunResultAsJSON(t *testing.T) {
	var received core.RunResult
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(nil)
	result := core.RunResult{RunID: "run-1", Status: core.StatusCompleted}
	client.Post(context.Background(), srv.URL, result)

	assert.Equal(t, "run-1", received.RunID)
	assert.Equal(t, core.StatusCompleted, received.Status)
}

func TestPostSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(nil)
	assert.NotPanics(t, func() {
		client.Post(context.Background(), srv.URL, core.RunResult{RunID: "run-1"})
	})
}

func TestPostNoOpOnEmptyURL(t *testing.T) {
	client := New(nil)
	assert.NotPanics(t, func() {
		client.Post(context.Background(), "", core.RunResult{RunID: "run-1"})
	})
}

func TestPostSwallowsUnreachableHost(t *testing.T) {
	client := New(nil)
	assert.NotPanics(t, func() {
		client.Post(context.Background(), "http://127.0.0.1:1", core.RunResult{RunID: "run-1"})
	})
}
