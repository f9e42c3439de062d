package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pkm-backend/internal/ai"
	"pkm-backend/internal/app"
	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubGenerator stands in for the Ollama client; one canned response or
// error per test.
type stubGenerator struct {
	lastReq   ai.GenerateRequest
	calls     int
	response  string
	err       error
	models    []string
	modelsErr error
	healthy   bool
}

func (g *stubGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	g.lastReq = req
	g.calls++
	return g.response, g.err
}

func (g *stubGenerator) ListModels(ctx context.Context) ([]string, error) {
	return g.models, g.modelsErr
}

func (g *stubGenerator) CheckHealth(ctx context.Context) bool { return g.healthy }

func (g *stubGenerator) DefaultModel() string { return "llama3.2:1b" }

// fixture wires the full HTTP surface over an in-memory database with
// the generation client stubbed out.
type fixture struct {
	router      *gin.Engine
	db          *gorm.DB
	gen         *stubGenerator
	sessionRepo *repository.AISessionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Workspace{},
		&model.Tag{},
		&model.Note{},
		&model.AISession{},
	))

	workspaceRepo := repository.NewWorkspaceRepository(db)
	tagRepo := repository.NewTagRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	sessionRepo := repository.NewAISessionRepository(db)

	gen := &stubGenerator{healthy: true}
	sink := app.NewDBSessionSink(sessionRepo)

	workspaceService := app.NewWorkspaceService(workspaceRepo)
	tagService := app.NewTagService(tagRepo)
	noteService := app.NewNoteService(noteRepo, workspaceRepo, tagRepo, nil, nil)
	aiService := app.NewAIService(gen, nil, nil)
	searchService := app.NewSearchService(noteRepo, aiService)

	workspaceHandler := NewWorkspaceHandler(workspaceService)
	tagHandler := NewTagHandler(tagService)
	noteHandler := NewNoteHandler(noteService)
	aiHandler := NewAIHandler(aiService, noteService, sink, nil)
	searchHandler := NewSearchHandler(searchService, aiService, sink, nil)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		workspaces := api.Group("/workspaces")
		{
			workspaces.POST("", workspaceHandler.Create)
			workspaces.GET("", workspaceHandler.List)
			workspaces.GET("/:id", workspaceHandler.Get)
			workspaces.PUT("/:id", workspaceHandler.Update)
			workspaces.DELETE("/:id", workspaceHandler.Delete)
		}
		notes := api.Group("/notes")
		{
			notes.POST("", noteHandler.Create)
			notes.GET("", noteHandler.List)
			notes.GET("/:id", noteHandler.Get)
			notes.PUT("/:id", noteHandler.Update)
			notes.DELETE("/:id", noteHandler.Delete)
		}
		tags := api.Group("/tags")
		{
			tags.POST("", tagHandler.Create)
			tags.GET("", tagHandler.List)
			tags.GET("/:id", tagHandler.Get)
			tags.PUT("/:id", tagHandler.Update)
			tags.DELETE("/:id", tagHandler.Delete)
		}
		aiGroup := api.Group("/ai")
		{
			aiGroup.POST("/cleanup", aiHandler.Cleanup)
			aiGroup.POST("/rephrase", aiHandler.Rephrase)
			aiGroup.POST("/chat", aiHandler.Chat)
			aiGroup.GET("/models", aiHandler.Models)
			aiGroup.GET("/health", aiHandler.Health)
		}
		api.POST("/search", searchHandler.AISearch)
		api.GET("/search/simple", searchHandler.SimpleSearch)
	}

	return &fixture{
		router:      router,
		db:          db,
		gen:         gen,
		sessionRepo: sessionRepo,
	}
}

func (f *fixture) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) createWorkspace(t *testing.T, name string) uint {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/v1/workspaces", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data model.Workspace `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func (f *fixture) createNote(t *testing.T, workspaceID uint, title, content string) uint {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/v1/notes", gin.H{
		"title":        title,
		"content":      content,
		"workspace_id": workspaceID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data model.Note `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func (f *fixture) sessions(t *testing.T) []model.AISession {
	t.Helper()
	sessions, err := f.sessionRepo.ListRecent("", 100)
	require.NoError(t, err)
	return sessions
}
