package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop_back_end/internal/models"
)

// respondError écrit l'enveloppe d'erreur standard. Toute erreur qui n'est
// pas un *models.ErrorResponse est masquée en 500 générique : le détail
// interne ne traverse jamais la frontière HTTP.
func respondError(c *gin.Context, err error) {
	var apiErr *models.ErrorResponse
	if !errors.As(err, &apiErr) {
		apiErr = models.NewInternalError("Internal server error", nil)
	}
	c.JSON(apiErr.StatusCode, gin.H{
		"success": false,
		"error":   apiErr,
	})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondBadRequest(c *gin.Context, message string, info any) {
	respondError(c, models.NewBadRequestError(message, info))
}
