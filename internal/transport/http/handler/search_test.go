package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkm-backend/internal/model"
)

func TestAISearchReturnsRankedResults(t *testing.T) {
	f := newFixture(t)
	workspaceID := f.createWorkspace(t, "Main")
	f.createNote(t, workspaceID, "Go Concurrency", "channels and goroutines")
	f.createNote(t, workspaceID, "Shopping", "milk and eggs")
	f.gen.response = `[{"index":0,"relevance_score":0.95,"snippet":"channels"}]`

	w := f.request(t, http.MethodPost, "/api/v1/search", gin.H{
		"query": "concurrency",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SearchResponse](t, w)
	assert.Equal(t, "concurrency", resp.Query)
	require.Equal(t, 1, resp.TotalCount)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Go Concurrency", resp.Results[0].NoteTitle)
	assert.Equal(t, 0.95, resp.Results[0].RelevanceScore)
	assert.Equal(t, "Main", resp.Results[0].WorkspaceName)

	sessions := f.sessions(t)
	require.Len(t, sessions, 1)
	assert.Equal(t, model.SessionTypeSearch, sessions[0].SessionType)
	assert.Equal(t, "concurrency", sessions[0].Query)
	assert.Equal(t, "Found 1 results", sessions[0].Response)
	assert.True(t, sessions[0].Success)
}

func TestAISearchGenerationFailureIs200EmptyWithFailureAudit(t *testing.T) {
	f := newFixture(t)
	workspaceID := f.createWorkspace(t, "Main")
	f.createNote(t, workspaceID, "n", "c")
	f.gen.err = errors.New("ollama request failed: timeout")

	w := f.request(t, http.MethodPost, "/api/v1/search", gin.H{
		"query": "anything",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SearchResponse](t, w)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.TotalCount)
	assert.Equal(t, "anything", resp.Query)

	sessions := f.sessions(t)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].Success)
	assert.Empty(t, sessions[0].Response)
}

func TestAISearchUnparsableRankingIs200Empty(t *testing.T) {
	f := newFixture(t)
	workspaceID := f.createWorkspace(t, "Main")
	f.createNote(t, workspaceID, "n", "c")
	f.gen.response = "Sorry, I cannot rank these notes."

	w := f.request(t, http.MethodPost, "/api/v1/search", gin.H{
		"query": "q",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SearchResponse](t, w)
	assert.Empty(t, resp.Results)

	// Unparsable output is a completed invocation, audited as success.
	sessions := f.sessions(t)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Success)
	assert.Equal(t, "Found 0 results", sessions[0].Response)
}

func TestAISearchMissingQueryIs422WithNoAudit(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/search", gin.H{
		"workspace_ids": []uint{1},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, f.sessions(t))
}

func TestAISearchMaxResultsOutOfRangeIs422(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/search", gin.H{
		"query":       "q",
		"max_results": 500,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSimpleSearchMatchesSubstrings(t *testing.T) {
	f := newFixture(t)
	workspaceID := f.createWorkspace(t, "Main")
	f.createNote(t, workspaceID, "Meeting Minutes", "discussed the roadmap")
	f.createNote(t, workspaceID, "Groceries", "milk and eggs")

	w := f.request(t, http.MethodGet, "/api/v1/search/simple?q=roadmap", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SearchResponse](t, w)
	require.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "Meeting Minutes", resp.Results[0].NoteTitle)
	assert.Equal(t, 1.0, resp.Results[0].RelevanceScore)

	assert.Empty(t, f.sessions(t), "simple search is not an AI invocation")
}

func TestSimpleSearchRequiresQueryParam(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodGet, "/api/v1/search/simple", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSimpleSearchFiltersByWorkspace(t *testing.T) {
	f := newFixture(t)
	first := f.createWorkspace(t, "First")
	second := f.createWorkspace(t, "Second")
	f.createNote(t, first, "shared term", "alpha")
	f.createNote(t, second, "shared term", "beta")

	w := f.request(t, http.MethodGet, "/api/v1/search/simple?q=shared&workspace_id="+uintString(second), nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SearchResponse](t, w)
	require.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "Second", resp.Results[0].WorkspaceName)
}
