package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/personality"
	"ditto/internal/service"
)

// statusForError traduce errores de servicio a codigos HTTP.
func statusForError(err error) int {
	switch {
	case errors.Is(err, personality.ErrLengthMismatch),
		errors.Is(err, personality.ErrResponseOutOfRange),
		errors.Is(err, personality.ErrInvalidDirection),
		errors.Is(err, personality.ErrUnknownQuestion),
		errors.Is(err, personality.ErrUnknownType),
		errors.Is(err, service.ErrQuizInvalidInput),
		errors.Is(err, service.ErrDiaryEmptyContent),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrTwinEmptyQuestion),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrOAuthInvalid),
		errors.Is(err, service.ErrOTPNotRequested),
		errors.Is(err, service.ErrOTPExpired),
		errors.Is(err, service.ErrOTPInvalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrQuizNotCompleted),
		errors.Is(err, service.ErrDiaryNoEntries):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrJWTInvalid),
		errors.Is(err, service.ErrJWTExpired):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrSessionForbidden),
		errors.Is(err, service.ErrJWTDemoUser):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrTwinNotConfigured),
		errors.Is(err, service.ErrEmailSendFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError escribe {"error": ...}. Los 500 se loguean y no exponen detalle.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindRequest decodifica el body; si falla ya respondio 400.
func bindRequest(c *gin.Context, logger *zap.Logger, req any, what string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("invalid "+what+" request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

// runAsync lanza trabajo que no debe bloquear la respuesta.
func runAsync(f func()) {
	go f()
}
