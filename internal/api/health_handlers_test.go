package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))

	assert.Equal(t, statusHealthy, health.Components["database"].Status)
	// No books indexed yet.
	assert.Equal(t, statusDegraded, health.Components["search"].Status)
	assert.Equal(t, statusDegraded, health.Status)
}

func TestHealthCheck_Healthy(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	ts.createAuthor(t, member, "Frank Herbert")
	ts.createBook(t, member, bookBody("Dune", "Frank Herbert", isbn(1), 1965))

	var health HealthResponse
	require.NoError(t, json.Unmarshal(ts.api.Get("/health").Body.Bytes(), &health))

	assert.Equal(t, statusHealthy, health.Status)
	assert.Equal(t, "1 documents", health.Components["search"].Message)
}

func TestHealthCheck_SearchDisabled(t *testing.T) {
	ts := setupTestServerWith(t, testServerOptions{disableSearch: true})

	var health HealthResponse
	require.NoError(t, json.Unmarshal(ts.api.Get("/health").Body.Bytes(), &health))

	assert.Equal(t, statusHealthy, health.Status)
	assert.Equal(t, "search disabled", health.Components["search"].Message)
}
