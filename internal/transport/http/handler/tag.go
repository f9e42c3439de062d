package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pkm-backend/internal/app"
	"pkm-backend/internal/transport/http/response"
)

type TagHandler struct {
	tagService *app.TagService
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

type UpdateTagRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,hexcolor"`
}

func NewTagHandler(tagService *app.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	tag, err := h.tagService.Create(app.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		case errors.Is(err, app.ErrTagNameExists):
			response.Error(c, http.StatusBadRequest, response.CodeTagNameExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create tag failed")
		}
		return
	}

	response.Created(c, tag)
}

func (h *TagHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	tags, err := h.tagService.List(offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list tags failed")
		return
	}
	response.OK(c, tags)
}

func (h *TagHandler) Get(c *gin.Context) {
	tagID, ok := idParam(c)
	if !ok {
		return
	}

	tag, err := h.tagService.Get(tagID)
	if err != nil {
		if errors.Is(err, app.ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeTagNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get tag failed")
		return
	}
	response.OK(c, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	tagID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, "invalid request payload")
		return
	}

	tag, err := h.tagService.Update(tagID, app.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTagNotFound):
			response.Error(c, http.StatusNotFound, response.CodeTagNotFound, err.Error())
		case errors.Is(err, app.ErrTagNameExists):
			response.Error(c, http.StatusBadRequest, response.CodeTagNameExists, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update tag failed")
		}
		return
	}
	response.OK(c, tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	tagID, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.tagService.Delete(tagID); err != nil {
		if errors.Is(err, app.ErrTagNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeTagNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete tag failed")
		return
	}
	response.OK(c, gin.H{"deleted_tag_id": tagID})
}
