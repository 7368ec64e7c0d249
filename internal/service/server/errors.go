package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/mflix/internal/model"
)

// statusFromError maps an error to the HTTP status sent to clients
func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidID),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrEmptyFilter),
		errors.Is(err, model.ErrEmptyComment),
		errors.Is(err, model.ErrInvalidSearchKind),
		errors.Is(err, model.ErrResultsTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAuthentication),
		errors.Is(err, model.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrAdminRequired):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts the request with an {"error": ...} body
func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		message = "an error occured while processing your request"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// bindingError marks a malformed request body as invalid input
func bindingError(err error) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, err)
}
