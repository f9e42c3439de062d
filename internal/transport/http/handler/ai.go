package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pkm-backend/internal/app"
	"pkm-backend/internal/model"
	"pkm-backend/internal/transport/http/response"
)

// AIEnvelope is the uniform response body for AI operations. Operational
// failures are reported inside the envelope with HTTP 200; non-200 codes
// are reserved for structural errors (missing note, invalid request).
type AIEnvelope struct {
	Success          bool   `json:"success"`
	Response         string `json:"response,omitempty"`
	Error            string `json:"error,omitempty"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	ModelUsed        string `json:"model_used"`
}

type AIHandler struct {
	aiService   *app.AIService
	noteService *app.NoteService
	sink        app.SessionSink
	logger      *log.Logger
}

type AICleanupRequest struct {
	NoteID      uint   `json:"note_id" binding:"required,gt=0"`
	CleanupType string `json:"cleanup_type" binding:"required,oneof=grammar structure clarity full"`
}

type AIRephraseRequest struct {
	Text  string `json:"text" binding:"required"`
	Style string `json:"style" binding:"omitempty,oneof=academic professional formal casual creative"`
}

type AIChatRequest struct {
	Message string `json:"message" binding:"required"`
	NoteIDs []uint `json:"note_ids"`
	// ConversationID is accepted for forward compatibility but no
	// conversation state is persisted server-side.
	ConversationID string `json:"conversation_id"`
}

func NewAIHandler(aiService *app.AIService, noteService *app.NoteService, sink app.SessionSink, logger *log.Logger) *AIHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &AIHandler{
		aiService:   aiService,
		noteService: noteService,
		sink:        sink,
		logger:      logger,
	}
}

// Cleanup rewrites the referenced note's content. The result is returned
// and logged, never written back to the note.
func (h *AIHandler) Cleanup(c *gin.Context) {
	var req AICleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	note, err := h.noteService.Get(req.NoteID)
	if err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNoteNotFound, "note not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get note failed")
		return
	}

	start := time.Now()
	cleaned, err := h.aiService.Cleanup(c.Request.Context(), note.Content, req.CleanupType)
	elapsed := time.Since(start)

	query := "Cleanup type: " + req.CleanupType
	h.respond(c, model.SessionTypeCleanup, query, cleaned, err, []uint{req.NoteID}, elapsed)
}

// Rephrase rewrites free text in the requested style (default
// professional).
func (h *AIHandler) Rephrase(c *gin.Context) {
	var req AIRephraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}
	if req.Style == "" {
		req.Style = "professional"
	}

	start := time.Now()
	rephrased, err := h.aiService.Rephrase(c.Request.Context(), req.Text, req.Style)
	elapsed := time.Since(start)

	query := fmt.Sprintf("Style: %s, Text: %s", req.Style, truncate(req.Text, 100))
	h.respond(c, model.SessionTypeRephrase, query, rephrased, err, nil, elapsed)
}

// Chat answers a question using the referenced notes as context. Missing
// note IDs are skipped; with no IDs the question is asked without any
// context framing.
func (h *AIHandler) Chat(c *gin.Context) {
	var req AIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	var noteContents []string
	if len(req.NoteIDs) > 0 {
		notes, err := h.noteService.GetByIDs(req.NoteIDs)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get notes failed")
			return
		}
		noteContents = make([]string, len(notes))
		for i, note := range notes {
			noteContents[i] = note.Title + "\n\n" + note.Content
		}
	}

	start := time.Now()
	answer, err := h.aiService.ChatWithNotes(c.Request.Context(), req.Message, noteContents, nil)
	elapsed := time.Since(start)

	h.respond(c, model.SessionTypeChat, req.Message, answer, err, req.NoteIDs, elapsed)
}

// Models lists the locally installed model names. Upstream failure shows
// as an empty list, never an error status.
func (h *AIHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, h.aiService.ListModels(c.Request.Context()))
}

// Health reports whether the Ollama backend is reachable.
func (h *AIHandler) Health(c *gin.Context) {
	if !h.aiService.CheckHealth(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "ollama"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "ollama"})
}

// respond builds the envelope and writes exactly one audit record,
// success or failure.
func (h *AIHandler) respond(c *gin.Context, sessionType, query, result string, genErr error, noteIDs []uint, elapsed time.Duration) {
	envelope := AIEnvelope{
		Success:          genErr == nil,
		Response:         result,
		ProcessingTimeMS: elapsed.Milliseconds(),
		ModelUsed:        h.aiService.DefaultModel(),
	}
	if genErr != nil {
		envelope.Response = ""
		envelope.Error = genErr.Error()
	}

	session := model.AISession{
		SessionType:      sessionType,
		Query:            query,
		Response:         envelope.Response,
		ModelUsed:        envelope.ModelUsed,
		ProcessingTimeMS: envelope.ProcessingTimeMS,
		Success:          envelope.Success,
	}
	session.SetNoteIDs(noteIDs)

	// The audit write must survive a client disconnect.
	if err := h.sink.Record(context.WithoutCancel(c.Request.Context()), session); err != nil {
		h.logger.Printf("warn: record ai session failed: %v", err)
	}

	c.JSON(http.StatusOK, envelope)
}

// truncate caps text at max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
