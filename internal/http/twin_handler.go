package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/service"
)

// TwinHandler permite hablar con el gemelo del usuario autenticado.
type TwinHandler struct {
	logger   *zap.Logger
	twinServ *service.TwinService
}

func NewTwinHandler(logger *zap.Logger, twinServ *service.TwinService) *TwinHandler {
	return &TwinHandler{logger: logger, twinServ: twinServ}
}

// Sync maneja POST /twin/sync: vuelve a cargar el perfil en la memoria.
func (h *TwinHandler) Sync(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := h.twinServ.SyncPersonality(c.Request.Context(), claims.UserID); err != nil {
		respondError(c, h.logger, err, "could not sync twin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Ask maneja POST /twin/ask.
func (h *TwinHandler) Ask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid twin ask request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.twinServ.Ask(c.Request.Context(), claims.UserID, req.Question)
	if err != nil {
		respondError(c, h.logger, err, "could not reach twin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
