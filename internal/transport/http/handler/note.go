package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pkm-backend/internal/app"
	"pkm-backend/internal/pkg/pdfextract"
	"pkm-backend/internal/transport/http/response"
)

const maxImportSize = 10 << 20 // 10 MB

type NoteHandler struct {
	noteService *app.NoteService
}

type CreateNoteRequest struct {
	Title       string `json:"title" binding:"required,max=500"`
	Content     string `json:"content" binding:"required"`
	WorkspaceID uint   `json:"workspace_id" binding:"required,gt=0"`
	TagIDs      []uint `json:"tag_ids"`
}

type UpdateNoteRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=500"`
	Content     *string `json:"content" binding:"omitempty,min=1"`
	WorkspaceID *uint   `json:"workspace_id" binding:"omitempty,gt=0"`
	TagIDs      *[]uint `json:"tag_ids"`
}

func NewNoteHandler(noteService *app.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	note, err := h.noteService.Create(app.CreateNoteInput{
		Title:       req.Title,
		Content:     req.Content,
		WorkspaceID: req.WorkspaceID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusBadRequest, response.CodeWorkspaceNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create note failed")
		}
		return
	}

	response.Created(c, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	var workspaceID uint
	if raw := c.Query("workspace_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid workspace_id")
			return
		}
		workspaceID = uint(parsed)
	}
	offset, limit := pagination(c)

	notes, err := h.noteService.List(workspaceID, offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list notes failed")
		return
	}
	response.OK(c, notes)
}

func (h *NoteHandler) Get(c *gin.Context) {
	noteID, ok := idParam(c)
	if !ok {
		return
	}

	note, err := h.noteService.Get(noteID)
	if err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNoteNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get note failed")
		return
	}
	response.OK(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	noteID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	note, err := h.noteService.Update(noteID, app.UpdateNoteInput{
		Title:       req.Title,
		Content:     req.Content,
		WorkspaceID: req.WorkspaceID,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNoteNotFound, err.Error())
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusBadRequest, response.CodeWorkspaceNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update note failed")
		}
		return
	}
	response.OK(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(noteID); err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNoteNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete note failed")
		return
	}
	response.OK(c, gin.H{"deleted_note_id": noteID})
}

// Import accepts a multipart PDF (form field "file") plus a workspace_id
// form value and creates a note from the extracted text.
func (h *NoteHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing pdf file (form field 'file')")
		return
	}
	if file.Size > maxImportSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	workspaceID64, err := strconv.ParseUint(c.PostForm("workspace_id"), 10, 64)
	if err != nil || workspaceID64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid workspace_id")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to open uploaded file")
		return
	}
	defer f.Close()

	text, err := pdfextract.ExtractText(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to extract pdf text: "+err.Error())
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	note, err := h.noteService.ImportDocument(title, text, uint(workspaceID64))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyDocument):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusBadRequest, response.CodeWorkspaceNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "import note failed")
		}
		return
	}

	response.Created(c, note)
}
