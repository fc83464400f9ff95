package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eshop_back_end/internal/models"
	"eshop_back_end/internal/services"
	"eshop_back_end/internal/store"
	"eshop_back_end/internal/utils"
)

type orderItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderRequest struct {
	OrderItems       []orderItemRequest `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress1 string             `json:"shippingAddress1" binding:"required"`
	ShippingAddress2 string             `json:"shippingAddress2"`
	City             string             `json:"city" binding:"required"`
	Zip              string             `json:"zip" binding:"required"`
	Country          string             `json:"country" binding:"required"`
	Phone            string             `json:"phone" binding:"required"`
}

type updateOrderRequest struct {
	OrderItems       []orderItemRequest `json:"orderItems" binding:"omitempty,min=1,dive"`
	Status           *string            `json:"status"`
	ShippingAddress1 *string            `json:"shippingAddress1"`
	ShippingAddress2 *string            `json:"shippingAddress2"`
	City             *string            `json:"city"`
	Zip              *string            `json:"zip"`
	Country          *string            `json:"country"`
	Phone            *string            `json:"phone"`
}

type OrderHandler struct {
	service *services.OrderService
	mailer  *utils.Mailer
}

func NewOrderHandler(service *services.OrderService, mailer *utils.Mailer) *OrderHandler {
	return &OrderHandler{service: service, mailer: mailer}
}

// CreateOrder — POST /orders. L'utilisateur vient du JWT, jamais du body.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid order payload", err.Error())
		return
	}

	lines, err := parseOrderLines(req.OrderItems)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		respondBadRequest(c, "Invalid user id in token", nil)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		Items:            lines,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Confirmation par email hors chemin critique, échec loggé seulement
	if h.mailer != nil && order.User != nil && order.User.Email != "" {
		go h.mailer.SendOrderConfirmation(order.User.Email, *order)
	}

	log.Printf("✅ Commande %s créée (total %.2f)", order.ID.Hex(), order.TotalPrice)
	respondCreated(c, order)
}

// GetOrders — GET /orders?status=&user=&page=&limit=
func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, limit, err := utils.ValidatePagination(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	filter := store.OrderFilter{Status: c.Query("status")}
	if userHex := c.Query("user"); userHex != "" {
		userID, err := primitive.ObjectIDFromHex(userHex)
		if err != nil {
			respondBadRequest(c, "Invalid user id", map[string]any{"user": userHex})
			return
		}
		filter.UserID = &userID
	}

	orders, total, err := h.service.GetOrders(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        orders,
		"page":        page,
		"limit":       limit,
		"totalOrders": total,
		"totalPages":  utils.TotalPages(total, limit),
	})
}

// GetOrder — GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid order id", map[string]any{"id": c.Param("id")})
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// UpdateOrder — PUT /orders/:id, patch partiel.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid order id", map[string]any{"id": c.Param("id")})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid order payload", err.Error())
		return
	}

	input := services.UpdateOrderInput{
		Status:           req.Status,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
	}
	if req.OrderItems != nil {
		lines, err := parseOrderLines(req.OrderItems)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Items = lines
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), orderID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// DeleteOrder — DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid order id", map[string]any{"id": c.Param("id")})
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Order deleted successfully"})
}

// GetTotalSales — GET /orders/total-sales
func (h *OrderHandler) GetTotalSales(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := h.service.CalculateTotalSales(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, total)
}

func parseOrderLines(items []orderItemRequest) ([]store.OrderLine, error) {
	lines := make([]store.OrderLine, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, badProductID(item.Product)
		}
		lines = append(lines, store.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

func badProductID(raw string) error {
	return models.NewBadRequestError("Invalid product id", map[string]any{"product": raw})
}
