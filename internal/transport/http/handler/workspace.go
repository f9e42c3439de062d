package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pkm-backend/internal/app"
	"pkm-backend/internal/transport/http/response"
)

type WorkspaceHandler struct {
	workspaceService *app.WorkspaceService
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
}

func NewWorkspaceHandler(workspaceService *app.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	workspace, err := h.workspaceService.Create(app.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		case errors.Is(err, app.ErrWorkspaceNameExists):
			response.Error(c, http.StatusBadRequest, response.CodeWorkspaceNameExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create workspace failed")
		}
		return
	}

	response.Created(c, workspace)
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	workspaces, err := h.workspaceService.List(offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list workspaces failed")
		return
	}
	response.OK(c, workspaces)
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspaceID, ok := idParam(c)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.Get(workspaceID)
	if err != nil {
		if errors.Is(err, app.ErrWorkspaceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get workspace failed")
		return
	}
	response.OK(c, workspace)
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	workspaceID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	workspace, err := h.workspaceService.Update(workspaceID, app.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
		case errors.Is(err, app.ErrWorkspaceNameExists):
			response.Error(c, http.StatusBadRequest, response.CodeWorkspaceNameExists, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update workspace failed")
		}
		return
	}
	response.OK(c, workspace)
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	workspaceID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.workspaceService.Delete(workspaceID); err != nil {
		if errors.Is(err, app.ErrWorkspaceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete workspace failed")
		return
	}
	response.OK(c, gin.H{"deleted_workspace_id": workspaceID})
}

// idParam parses the ":id" path segment, writing the error response on
// failure.
func idParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid id")
		return 0, false
	}
	return uint(parsed), true
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
