package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pkm-backend/internal/app"
	"pkm-backend/internal/model"
	"pkm-backend/internal/transport/http/response"
)

type SearchHandler struct {
	searchService *app.SearchService
	aiService     *app.AIService
	sink          app.SessionSink
	logger        *log.Logger
}

type AISearchRequest struct {
	Query        string `json:"query" binding:"required"`
	WorkspaceIDs []uint `json:"workspace_ids"`
	MaxResults   int    `json:"max_results" binding:"omitempty,gte=1,lte=50"`
}

type SearchResponse struct {
	Results    []app.SearchResult `json:"results"`
	TotalCount int                `json:"total_count"`
	Query      string             `json:"query"`
}

func NewSearchHandler(searchService *app.SearchService, aiService *app.AIService, sink app.SessionSink, logger *log.Logger) *SearchHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &SearchHandler{
		searchService: searchService,
		aiService:     aiService,
		sink:          sink,
		logger:        logger,
	}
}

// AISearch ranks notes against the query via the model. Generation
// failures follow the same policy as the other AI endpoints: HTTP 200
// with an empty result set plus a failure audit record, never a 5xx.
func (h *SearchHandler) AISearch(c *gin.Context) {
	var req AISearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}
	if req.MaxResults == 0 {
		req.MaxResults = 10
	}

	start := time.Now()
	results, err := h.searchService.AISearch(c.Request.Context(), req.Query, req.WorkspaceIDs, req.MaxResults)
	elapsed := time.Since(start)

	if err != nil {
		h.record(c, req.Query, "", elapsed, false)
		c.JSON(http.StatusOK, SearchResponse{
			Results:    []app.SearchResult{},
			TotalCount: 0,
			Query:      req.Query,
		})
		return
	}

	h.record(c, req.Query, fmt.Sprintf("Found %d results", len(results)), elapsed, true)
	c.JSON(http.StatusOK, SearchResponse{
		Results:    results,
		TotalCount: len(results),
		Query:      req.Query,
	})
}

// SimpleSearch is plain substring matching over title/content, no model.
func (h *SearchHandler) SimpleSearch(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "query parameter 'q' is required")
		return
	}

	var workspaceID uint
	if raw := c.Query("workspace_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid workspace_id")
			return
		}
		workspaceID = uint(parsed)
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.searchService.SimpleSearch(term, workspaceID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results:    results,
		TotalCount: len(results),
		Query:      term,
	})
}

func (h *SearchHandler) record(c *gin.Context, query, result string, elapsed time.Duration, success bool) {
	session := model.AISession{
		SessionType:      model.SessionTypeSearch,
		Query:            query,
		Response:         result,
		ModelUsed:        h.aiService.DefaultModel(),
		ProcessingTimeMS: elapsed.Milliseconds(),
		Success:          success,
	}
	if err := h.sink.Record(context.WithoutCancel(c.Request.Context()), session); err != nil {
		h.logger.Printf("warn: record search session failed: %v", err)
	}
}
