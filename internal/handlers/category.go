package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/services"
)

type createCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Image string `json:"image"`
}

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.service.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid category id", map[string]any{"id": c.Param("id")})
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid category payload", err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), models.Category{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Image: req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid category id", map[string]any{"id": c.Param("id")})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid category payload", err.Error())
		return
	}

	patch := bson.M{}
	for key, value := range body {
		switch key {
		case "name", "color", "icon", "image":
			patch[key] = value
		}
	}
	if len(patch) == 0 {
		respondBadRequest(c, "No updatable fields provided", nil)
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid category id", map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Category deleted successfully"})
}
