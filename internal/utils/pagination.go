package utils

import (
	"strconv"

	"eshop_back_end/internal/models"
)

// ValidatePagination parse page/limit avec les défauts 1/10 ; toute valeur
// non numérique ou non strictement positive est une erreur client.
func ValidatePagination(pageStr, limitStr string) (int64, int64, error) {
	if pageStr == "" {
		pageStr = "1"
	}
	if limitStr == "" {
		limitStr = "10"
	}

	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page <= 0 {
		return 0, 0, models.NewBadRequestError("Invalid page number", map[string]any{"page": pageStr})
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		return 0, 0, models.NewBadRequestError("Invalid limit number", map[string]any{"limit": limitStr})
	}

	return page, limit, nil
}

// TotalPages arrondit au supérieur, 0 élément → 0 page.
func TotalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
