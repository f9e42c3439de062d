package http

import (
	"log"

	"github.com/gin-gonic/gin"

	appsvc "pkm-backend/internal/app"
	"pkm-backend/internal/bootstrap"
	"pkm-backend/internal/notefs"
	"pkm-backend/internal/repository"
	"pkm-backend/internal/transport/http/handler"
	"pkm-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.CORS(app.Config.CORS.AllowedOrigins))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	logger := log.Default()
	workspaceRepo := repository.NewWorkspaceRepository(app.MySQL)
	noteRepo := repository.NewNoteRepository(app.MySQL)
	tagRepo := repository.NewTagRepository(app.MySQL)

	noteFiles := notefs.NewStore(app.Config.Storage.NotesPath)
	workspaceService := appsvc.NewWorkspaceService(workspaceRepo)
	noteService := appsvc.NewNoteService(noteRepo, workspaceRepo, tagRepo, noteFiles, logger)
	tagService := appsvc.NewTagService(tagRepo)
	aiService := appsvc.NewAIService(app.Ollama, app.ModelCache, logger)
	searchService := appsvc.NewSearchService(noteRepo, aiService)

	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	noteHandler := handler.NewNoteHandler(noteService)
	tagHandler := handler.NewTagHandler(tagService)
	aiHandler := handler.NewAIHandler(aiService, noteService, app.SessionSink, logger)
	searchHandler := handler.NewSearchHandler(searchService, aiService, app.SessionSink, logger)

	v1 := router.Group("/api/v1")

	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.Create)
	workspaces.GET("", workspaceHandler.List)
	workspaces.GET("/:id", workspaceHandler.Get)
	workspaces.PUT("/:id", workspaceHandler.Update)
	workspaces.DELETE("/:id", workspaceHandler.Delete)

	notes := v1.Group("/notes")
	notes.POST("", noteHandler.Create)
	notes.POST("/import", noteHandler.Import)
	notes.GET("", noteHandler.List)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	tags := v1.Group("/tags")
	tags.POST("", tagHandler.Create)
	tags.GET("", tagHandler.List)
	tags.GET("/:id", tagHandler.Get)
	tags.PUT("/:id", tagHandler.Update)
	tags.DELETE("/:id", tagHandler.Delete)

	aiGroup := v1.Group("/ai")
	aiGroup.POST("/cleanup", aiHandler.Cleanup)
	aiGroup.POST("/rephrase", aiHandler.Rephrase)
	aiGroup.POST("/chat", aiHandler.Chat)
	aiGroup.GET("/models", aiHandler.Models)
	aiGroup.GET("/health", aiHandler.Health)

	search := v1.Group("/search")
	search.POST("", searchHandler.AISearch)
	search.GET("/simple", searchHandler.SimpleSearch)

	return router
}
