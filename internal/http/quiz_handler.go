package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/personality"
	"ditto/internal/service"
)

const twinSyncTimeout = 30 * time.Second

// QuizHandler expone el test de personalidad y sus resultados.
type QuizHandler struct {
	logger   *zap.Logger
	quizServ *service.QuizService
	twinServ *service.TwinService
	async    func(func())
}

func NewQuizHandler(logger *zap.Logger, quizServ *service.QuizService, twinServ *service.TwinService) *QuizHandler {
	return &QuizHandler{
		logger:   logger,
		quizServ: quizServ,
		twinServ: twinServ,
		async:    runAsync,
	}
}

// Questions maneja GET /quiz/questions.
func (h *QuizHandler) Questions(c *gin.Context) {
	questions := h.quizServ.Questions()
	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"total":     len(questions),
	})
}

// RecordAnswer maneja POST /quiz/answers.
func (h *QuizHandler) RecordAnswer(c *gin.Context) {
	var req struct {
		SessionID    string `json:"sessionId" binding:"required"`
		QuestionNum  int    `json:"questionNum" binding:"required"`
		QuestionText string `json:"questionText"`
		Answer       int    `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.quizServ.RecordAnswer(c.Request.Context(), service.AnswerInput{
		SessionID:    req.SessionID,
		QuestionNum:  req.QuestionNum,
		QuestionText: req.QuestionText,
		Answer:       req.Answer,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not save answer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}

// ListAnswers maneja GET /quiz/answers?session_id=.
func (h *QuizHandler) ListAnswers(c *gin.Context) {
	answers, err := h.quizServ.SessionAnswers(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, h.logger, err, "could not list answers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers, "count": len(answers)})
}

// Submit maneja POST /quiz/submit. Sin responses ni answers se evaluan las
// respuestas registradas para la sesion.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req struct {
		SessionID string         `json:"sessionId" binding:"required"`
		Responses []int          `json:"responses"`
		Answers   map[string]int `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var (
		sub service.Submission
		err error
	)
	if len(req.Responses) == 0 && len(req.Answers) == 0 {
		sub, err = h.quizServ.SubmitRecorded(c.Request.Context(), req.SessionID)
	} else {
		sub, err = h.quizServ.Submit(c.Request.Context(), service.SubmitInput{
			SessionID: req.SessionID,
			Responses: req.Responses,
			Answers:   req.Answers,
		})
	}
	if err != nil {
		respondError(c, h.logger, err, "could not evaluate quiz")
		return
	}

	h.syncTwin(sub.UserID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  sub.UserID,
		"result":  sub.Evaluation,
	})
}

// SavePersonality maneja POST /personality/save.
func (h *QuizHandler) SavePersonality(c *gin.Context) {
	var req struct {
		SessionID       string          `json:"sessionId" binding:"required"`
		PersonalityType string          `json:"personalityType" binding:"required"`
		Dimensions      json.RawMessage `json:"dimensions"`
		Description     json.RawMessage `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save personality request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.quizServ.SaveResult(c.Request.Context(), service.SaveResultInput{
		SessionID:       req.SessionID,
		PersonalityType: req.PersonalityType,
		Dimensions:      req.Dimensions,
		Description:     req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not save personality")
		return
	}

	h.syncTwin(userID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  userID,
		"message": "Personality saved successfully",
	})
}

// GetPersonality maneja GET /personality?user_id=.
func (h *QuizHandler) GetPersonality(c *gin.Context) {
	result, err := h.quizServ.Result(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.respondStoredError(c, err, "could not load personality")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPersonality maneja GET /export/personality?userId=.
func (h *QuizHandler) ExportPersonality(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	export, err := h.quizServ.Export(c.Request.Context(), userID)
	if err != nil {
		h.respondStoredError(c, err, "could not export personality")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"personalityText": export.Text,
		"metadata":        export.Metadata,
	})
}

// respondStoredError: un tipo guardado invalido es un problema del servidor,
// no del request.
func (h *QuizHandler) respondStoredError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, personality.ErrUnknownType) {
		h.logger.Error("stored personality type is invalid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}
	respondError(c, h.logger, err, fallback)
}

func (h *QuizHandler) syncTwin(userID string) {
	if !h.twinServ.Enabled() || userID == "" {
		return
	}
	h.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), twinSyncTimeout)
		defer cancel()
		if err := h.twinServ.SyncPersonality(ctx, userID); err != nil {
			h.logger.Warn("twin personality sync failed", zap.Error(err), zap.String("user_id", userID))
			return
		}
		h.logger.Info("twin personality synced", zap.String("user_id", userID))
	})
}
