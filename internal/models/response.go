package models

import (
	"net/http"

	"github.com/google/uuid"
)

// ErrorResponse est le contrat d'erreur exposé par l'API : chaque erreur porte
// un identifiant unique généré pour la traçabilité, un message lisible,
// le code HTTP et un contexte optionnel.
type ErrorResponse struct {
	ID             string `json:"id"`
	Message        string `json:"message"`
	StatusCode     int    `json:"statusCode"`
	AdditionalInfo any    `json:"additionalInfo,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func NewNotFoundError(message string, info any) *ErrorResponse {
	return newError(message, http.StatusNotFound, info)
}

func NewBadRequestError(message string, info any) *ErrorResponse {
	return newError(message, http.StatusBadRequest, info)
}

func NewUnauthorizedError(message string, info any) *ErrorResponse {
	return newError(message, http.StatusUnauthorized, info)
}

func NewInternalError(message string, info any) *ErrorResponse {
	return newError(message, http.StatusInternalServerError, info)
}

func newError(message string, status int, info any) *ErrorResponse {
	return &ErrorResponse{
		ID:             uuid.NewString(),
		Message:        message,
		StatusCode:     status,
		AdditionalInfo: info,
	}
}
