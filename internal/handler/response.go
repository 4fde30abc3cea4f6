package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelter/internal/repository"
	"shelter/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidAnimal),
		errors.Is(err, service.ErrInvalidStory),
		errors.Is(err, service.ErrInvalidVolunteer),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidSponsor):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrAnimalAlreadyAdopted),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, service.ErrNotSubscribed):
		return http.StatusNotFound

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
