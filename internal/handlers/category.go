package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-backend/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid category payload")
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, categories)
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid category payload")
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), categoryID, req.Name, req.Color)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
