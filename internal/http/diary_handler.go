package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/domain"
	"ditto/internal/service"
)

// DiaryHandler expone el diario del usuario.
type DiaryHandler struct {
	logger    *zap.Logger
	diaryServ *service.DiaryService
	twinServ  *service.TwinService
	async     func(func())
}

func NewDiaryHandler(logger *zap.Logger, diaryServ *service.DiaryService, twinServ *service.TwinService) *DiaryHandler {
	return &DiaryHandler{
		logger:    logger,
		diaryServ: diaryServ,
		twinServ:  twinServ,
		async:     runAsync,
	}
}

// CreateEntry maneja POST /diary.
func (h *DiaryHandler) CreateEntry(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
		Content   string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid diary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := h.diaryServ.Create(c.Request.Context(), req.SessionID, req.Content)
	if err != nil {
		respondError(c, h.logger, err, "could not save diary entry")
		return
	}

	h.remember(entry)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  entry.UserID,
		"entry":   entry,
	})
}

// ListEntries maneja GET /diary para el usuario autenticado.
func (h *DiaryHandler) ListEntries(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	entries, err := h.diaryServ.List(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		respondError(c, h.logger, err, "could not list diary entries")
		return
	}
	if entries == nil {
		entries = []domain.DiaryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ExportDiary maneja GET /export/diary?userId=.
func (h *DiaryHandler) ExportDiary(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	export, err := h.diaryServ.Export(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not export diary")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"diaryText": export.Text,
		"metadata":  export.Metadata,
	})
}

func (h *DiaryHandler) remember(entry domain.DiaryEntry) {
	if !h.twinServ.Enabled() {
		return
	}
	h.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), twinSyncTimeout)
		defer cancel()
		if err := h.twinServ.RememberDiary(ctx, entry); err != nil {
			h.logger.Warn("twin diary sync failed", zap.Error(err), zap.String("entry_id", entry.ID))
		}
	})
}
