package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ditto/internal/domain"
	"ditto/internal/memory"
	"ditto/internal/repository"
)

var (
	ErrTwinNotConfigured = errors.New("twin memory not configured")
	ErrTwinEmptyQuestion = errors.New("question is required")
)

type personalityExporter interface {
	exportProfile(ctx context.Context, userID string) (PersonalityExport, error)
}

// TwinService mantiene el gemelo digital de cada usuario en el servicio de
// memoria: un assistant y un thread por usuario.
type TwinService struct {
	client   memory.Client
	users    repository.UserRepository
	exporter personalityExporter
	model    string
	logger   *zap.Logger
	limiter  RateLimiter

	// creating agrupa por usuario las creaciones de gemelo en curso.
	creating singleflight.Group
}

func NewTwinService(client memory.Client, users repository.UserRepository, exporter personalityExporter, model string, logger *zap.Logger) *TwinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwinService{
		client:   client,
		users:    users,
		exporter: exporter,
		model:    model,
		logger:   logger,
	}
}

// WithAskLimiter limita las preguntas por usuario; cada una es un turno del LLM.
func (s *TwinService) WithAskLimiter(l RateLimiter) *TwinService {
	s.limiter = l
	return s
}

// Enabled indica si hay un cliente de memoria configurado.
func (s *TwinService) Enabled() bool {
	return s != nil && s.client != nil && s.users != nil
}

// EnsureTwin crea assistant y thread la primera vez y guarda sus IDs. Las
// llamadas concurrentes para el mismo usuario comparten una sola creacion.
func (s *TwinService) EnsureTwin(ctx context.Context, user domain.User) (domain.User, error) {
	if !s.Enabled() {
		return domain.User{}, ErrTwinNotConfigured
	}
	if hasTwin(user) {
		return user, nil
	}

	v, err, _ := s.creating.Do(user.ID, func() (any, error) {
		return s.createTwin(ctx, user.ID)
	})
	if err != nil {
		return domain.User{}, err
	}
	return v.(domain.User), nil
}

func (s *TwinService) createTwin(ctx context.Context, userID string) (domain.User, error) {
	// Releer: otra llamada pudo terminar entre la lectura del caller y el Do.
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if hasTwin(user) {
		return user, nil
	}

	assistantID := user.TwinAssistantID
	if assistantID == "" {
		assistant, err := s.client.CreateAssistant(ctx, memory.CreateAssistantRequest{
			Name:         twinName(user),
			Description:  "Digital twin built from personality quiz results and diary entries.",
			SystemPrompt: twinSystemPrompt(user),
			LLMModel:     s.model,
		})
		if err != nil {
			return domain.User{}, fmt.Errorf("create assistant: %w", err)
		}
		assistantID = assistant.AssistantID
	}

	thread, err := s.client.CreateThread(ctx, assistantID)
	if err != nil {
		return domain.User{}, fmt.Errorf("create thread: %w", err)
	}
	stored, err := s.users.SetTwin(ctx, user.ID, assistantID, thread.ThreadID)
	if err != nil {
		return domain.User{}, fmt.Errorf("store twin ids: %w", err)
	}
	if !stored {
		// Otra instancia guardo su gemelo primero; el nuestro queda sin usar.
		s.logger.Warn("twin already stored, discarding new one",
			zap.String("user_id", user.ID),
			zap.String("assistant_id", assistantID),
			zap.String("thread_id", thread.ThreadID),
		)
		return s.loadUser(ctx, user.ID)
	}

	user.TwinAssistantID = assistantID
	user.TwinThreadID = thread.ThreadID
	s.logger.Info("twin created", zap.String("user_id", user.ID), zap.String("assistant_id", assistantID))
	return user, nil
}

// SyncPersonality guarda el export del test en la memoria sin generar respuesta.
func (s *TwinService) SyncPersonality(ctx context.Context, userID string) error {
	if !s.Enabled() || s.exporter == nil {
		return ErrTwinNotConfigured
	}
	export, err := s.exporter.exportProfile(ctx, userID)
	if err != nil {
		return err
	}
	user, err := s.twinFor(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.client.SendMessage(ctx, user.TwinThreadID, memory.SendMessageRequest{
		Content:   export.Text,
		SendToLLM: false,
		Metadata: map[string]any{
			"type":             "personality_profile",
			"personality_type": export.Metadata.PersonalityType,
		},
	})
	if err != nil {
		return fmt.Errorf("sync personality: %w", err)
	}
	return nil
}

// RememberDiary agrega una entrada del diario a la memoria del gemelo.
func (s *TwinService) RememberDiary(ctx context.Context, entry domain.DiaryEntry) error {
	if !s.Enabled() {
		return ErrTwinNotConfigured
	}
	user, err := s.twinFor(ctx, entry.UserID)
	if err != nil {
		return err
	}
	_, err = s.client.SendMessage(ctx, user.TwinThreadID, memory.SendMessageRequest{
		Content:   entry.Content,
		SendToLLM: false,
		Metadata: map[string]any{
			"type":       "diary_entry",
			"entry_id":   entry.ID,
			"entry_date": entry.EntryDate,
		},
	})
	if err != nil {
		return fmt.Errorf("remember diary entry: %w", err)
	}
	return nil
}

// Ask envia una pregunta al gemelo y devuelve su respuesta.
func (s *TwinService) Ask(ctx context.Context, userID, question string) (string, error) {
	if !s.Enabled() {
		return "", ErrTwinNotConfigured
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrTwinEmptyQuestion
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return "", ErrRateLimited
	}
	user, err := s.twinFor(ctx, userID)
	if err != nil {
		return "", err
	}
	reply, err := s.client.SendMessage(ctx, user.TwinThreadID, memory.SendMessageRequest{
		Content:   question,
		Role:      "user",
		SendToLLM: true,
	})
	if err != nil {
		return "", fmt.Errorf("ask twin: %w", err)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return "", memory.ErrEmptyResponse
	}
	return reply.Content, nil
}

func (s *TwinService) twinFor(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	return s.EnsureTwin(ctx, user)
}

func (s *TwinService) loadUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func hasTwin(user domain.User) bool {
	return user.TwinAssistantID != "" && user.TwinThreadID != ""
}

func twinName(user domain.User) string {
	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = user.Email
	}
	return "Ditto twin - " + name
}

func twinSystemPrompt(user domain.User) string {
	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = "the user"
	}
	return fmt.Sprintf(
		"You are the digital twin of %s. Speak in first person as they would, "+
			"grounding every answer in their personality profile and diary entries stored in memory. "+
			"If memory has nothing relevant, say you don't remember instead of inventing details.",
		name,
	)
}
