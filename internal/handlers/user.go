package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/services"
	"eshop_back_end/internal/utils"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Address  string `json:"address"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"isAdmin"`
	Avatar   string `json:"avatar"`
}

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser — POST /users (inscription, ouverte).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid user payload", err.Error())
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Address2: req.Address2,
		City:     req.City,
		Zip:      req.Zip,
		Country:  req.Country,
		Phone:    req.Phone,
		IsAdmin:  req.IsAdmin,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// GetUsers — GET /users?role=admin|non-admin&page=&limit=
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, limit, err := utils.ValidatePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	filter := services.UserFilter{}
	switch c.Query("role") {
	case "admin":
		isAdmin := true
		filter.IsAdmin = &isAdmin
	case "non-admin":
		isAdmin := false
		filter.IsAdmin = &isAdmin
	}

	users, total, err := h.service.GetUsers(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       users,
		"page":       page,
		"limit":      limit,
		"totalUsers": total,
		"totalPages": utils.TotalPages(total, limit),
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid user id", map[string]any{"id": c.Param("id")})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// UpdateUser — PUT /users/:id (admin) ; "password" dans le body est rehashé.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid user id", map[string]any{"id": c.Param("id")})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid user payload", err.Error())
		return
	}

	patch := bson.M{}
	for key, value := range body {
		switch key {
		case "name", "email", "password", "address", "address2",
			"city", "zip", "country", "phone", "isAdmin", "avatar":
			patch[key] = value
		}
	}
	if len(patch) == 0 {
		respondBadRequest(c, "No updatable fields provided", nil)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid user id", map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "User deleted successfully"})
}

// CountUsers — GET /users/count (admin)
func (h *UserHandler) CountUsers(c *gin.Context) {
	count, err := h.service.CountUsers(c.Request.Context(), services.UserFilter{})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"userCount": count})
}
