package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ditto/internal/domain"
	"ditto/internal/personality"
	"ditto/internal/repository"
)

// SessionUserResolver resuelve el dueño de un sessionId del cliente y
// verifica que el caller pueda usarlo.
type SessionUserResolver interface {
	ResolveSessionUser(ctx context.Context, sessionID string) (domain.User, error)
	AuthorizeSession(ctx context.Context, sessionID string) error
}

// QuizService orquesta el test de personalidad: registra respuestas, evalua
// con el motor y persiste el resultado en el usuario.
type QuizService struct {
	answers  repository.QuizAnswerRepository
	users    repository.UserRepository
	resolver SessionUserResolver
	logger   *zap.Logger
	now      func() time.Time
}

var (
	ErrQuizNotConfigured = errors.New("quiz service not configured")
	ErrQuizInvalidInput  = errors.New("quiz invalid input")
	ErrQuizNotCompleted  = errors.New("user has not completed personality quiz")
)

func NewQuizService(
	answers repository.QuizAnswerRepository,
	users repository.UserRepository,
	resolver SessionUserResolver,
	logger *zap.Logger,
) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		answers:  answers,
		users:    users,
		resolver: resolver,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Questions devuelve el inventario en el orden en que debe presentarse.
func (s *QuizService) Questions() []personality.Question {
	return personality.Questions()
}

type AnswerInput struct {
	SessionID    string
	QuestionNum  int
	QuestionText string
	Answer       int
}

// RecordAnswer guarda una respuesta cruda a medida que el usuario avanza.
func (s *QuizService) RecordAnswer(ctx context.Context, input AnswerInput) (domain.QuizAnswer, error) {
	if s == nil || s.answers == nil || s.resolver == nil {
		return domain.QuizAnswer{}, ErrQuizNotConfigured
	}
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return domain.QuizAnswer{}, fmt.Errorf("%w: session id is required", ErrQuizInvalidInput)
	}
	q, ok := personality.QuestionAt(input.QuestionNum)
	if !ok {
		return domain.QuizAnswer{}, fmt.Errorf("%w: question %d", personality.ErrUnknownQuestion, input.QuestionNum)
	}
	if input.Answer < personality.MinResponse || input.Answer > personality.MaxResponse {
		return domain.QuizAnswer{}, fmt.Errorf("%w: %d", personality.ErrResponseOutOfRange, input.Answer)
	}
	if err := s.resolver.AuthorizeSession(ctx, sessionID); err != nil {
		return domain.QuizAnswer{}, err
	}

	text := strings.TrimSpace(input.QuestionText)
	if text == "" {
		text = q.Text
	}
	answer := domain.QuizAnswer{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		QuestionNum:  input.QuestionNum,
		QuestionID:   q.ID,
		QuestionText: text,
		Answer:       input.Answer,
		CreatedAt:    s.now(),
	}
	if err := s.answers.Upsert(ctx, answer); err != nil {
		return domain.QuizAnswer{}, fmt.Errorf("save answer: %w", err)
	}
	return answer, nil
}

// SessionAnswers devuelve las respuestas registradas, ordenadas por pregunta.
func (s *QuizService) SessionAnswers(ctx context.Context, sessionID string) ([]domain.QuizAnswer, error) {
	if s == nil || s.answers == nil || s.resolver == nil {
		return nil, ErrQuizNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrQuizInvalidInput)
	}
	if err := s.resolver.AuthorizeSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.answers.ListBySessionID(ctx, sessionID)
}

type SubmitInput struct {
	SessionID string
	// Responses en orden del inventario, o Answers indexadas por ID de pregunta.
	Responses []int
	Answers   map[string]int
}

type Submission struct {
	UserID     string                 `json:"userId"`
	Evaluation personality.Evaluation `json:"result"`
}

// Submit evalua un envio completo y lo guarda en el dueño de la sesion.
func (s *QuizService) Submit(ctx context.Context, input SubmitInput) (Submission, error) {
	if s == nil || s.users == nil || s.resolver == nil {
		return Submission{}, ErrQuizNotConfigured
	}
	if strings.TrimSpace(input.SessionID) == "" {
		return Submission{}, fmt.Errorf("%w: session id is required", ErrQuizInvalidInput)
	}

	if len(input.Answers) > 0 && len(input.Responses) > 0 {
		return Submission{}, fmt.Errorf("%w: send responses or answers, not both", ErrQuizInvalidInput)
	}

	var (
		ev  personality.Evaluation
		err error
	)
	if len(input.Answers) > 0 {
		ev, err = personality.EvaluateByID(input.Answers)
	} else {
		ev, err = personality.Evaluate(input.Responses)
	}
	if err != nil {
		return Submission{}, fmt.Errorf("evaluate responses: %w", err)
	}

	user, err := s.resolver.ResolveSessionUser(ctx, input.SessionID)
	if err != nil {
		return Submission{}, fmt.Errorf("resolve session user: %w", err)
	}

	dims, err := json.Marshal(ev.Dimensions)
	if err != nil {
		return Submission{}, err
	}
	desc, err := json.Marshal(ev.Description)
	if err != nil {
		return Submission{}, err
	}
	record := domain.PersonalityRecord{
		Type:        ev.Type.String(),
		Dimensions:  dims,
		Description: desc,
		CompletedAt: s.now(),
	}
	if err := s.users.SavePersonality(ctx, user.ID, record); err != nil {
		return Submission{}, fmt.Errorf("save personality: %w", err)
	}

	s.logger.Info("personality quiz completed",
		zap.String("user_id", user.ID),
		zap.String("type", ev.Type.String()),
	)
	return Submission{UserID: user.ID, Evaluation: ev}, nil
}

// SubmitRecorded evalua las respuestas registradas con RecordAnswer. Se
// emparejan por numero de pregunta, no por el orden en que llegaron.
func (s *QuizService) SubmitRecorded(ctx context.Context, sessionID string) (Submission, error) {
	answers, err := s.SessionAnswers(ctx, sessionID)
	if err != nil {
		return Submission{}, err
	}
	byID := make(map[string]int, len(answers))
	for _, a := range answers {
		q, ok := personality.QuestionAt(a.QuestionNum)
		if !ok {
			return Submission{}, fmt.Errorf("%w: question %d", personality.ErrUnknownQuestion, a.QuestionNum)
		}
		byID[q.ID] = a.Answer
	}
	if missing := personality.QuestionCount() - len(byID); missing > 0 {
		return Submission{}, fmt.Errorf("%w: %d of %d questions unanswered", ErrQuizInvalidInput, missing, personality.QuestionCount())
	}
	return s.Submit(ctx, SubmitInput{SessionID: sessionID, Answers: byID})
}

type SaveResultInput struct {
	SessionID       string
	PersonalityType string
	Dimensions      json.RawMessage
	Description     json.RawMessage
}

// SaveResult guarda un resultado calculado por el cliente.
func (s *QuizService) SaveResult(ctx context.Context, input SaveResultInput) (string, error) {
	if s == nil || s.users == nil || s.resolver == nil {
		return "", ErrQuizNotConfigured
	}
	t, err := personality.ParseType(input.PersonalityType)
	if err != nil {
		return "", err
	}
	user, err := s.resolver.ResolveSessionUser(ctx, input.SessionID)
	if err != nil {
		return "", fmt.Errorf("resolve session user: %w", err)
	}
	record := domain.PersonalityRecord{
		Type:        t.String(),
		Dimensions:  input.Dimensions,
		Description: input.Description,
		CompletedAt: s.now(),
	}
	if err := s.users.SavePersonality(ctx, user.ID, record); err != nil {
		return "", fmt.Errorf("save personality: %w", err)
	}
	return user.ID, nil
}

type StoredResult struct {
	UserID      string                        `json:"userId"`
	Type        personality.Type              `json:"type"`
	Description personality.Result            `json:"description"`
	Dimensions  []personality.DimensionResult `json:"dimensions,omitempty"`
	CompletedAt time.Time                     `json:"completedAt"`
}

// Result recupera el resultado guardado y lo vuelve a describir.
func (s *QuizService) Result(ctx context.Context, userID string) (StoredResult, error) {
	user, err := s.completedUser(ctx, userID, true)
	if err != nil {
		return StoredResult{}, err
	}
	desc, err := personality.Describe(personality.Type(user.PersonalityType))
	if err != nil {
		return StoredResult{}, fmt.Errorf("stored type for user %s: %w", user.ID, err)
	}
	return StoredResult{
		UserID:      user.ID,
		Type:        desc.FullType,
		Description: desc,
		Dimensions:  decodeDimensions(user.Personality.Dimensions),
		CompletedAt: user.Personality.CompletedAt,
	}, nil
}

type ExportMetadata struct {
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	PersonalityType string    `json:"personalityType"`
	CompletedAt     time.Time `json:"completedAt"`
}

type PersonalityExport struct {
	Text     string         `json:"personalityText"`
	Metadata ExportMetadata `json:"metadata"`
}

// Export arma el texto plano del resultado para el dueño de la cuenta.
func (s *QuizService) Export(ctx context.Context, userID string) (PersonalityExport, error) {
	user, err := s.completedUser(ctx, userID, true)
	if err != nil {
		return PersonalityExport{}, err
	}
	return buildPersonalityExport(user)
}

// exportProfile es el mismo export para uso interno del gemelo, que corre
// fuera de un request y no tiene caller.
func (s *QuizService) exportProfile(ctx context.Context, userID string) (PersonalityExport, error) {
	user, err := s.completedUser(ctx, userID, false)
	if err != nil {
		return PersonalityExport{}, err
	}
	return buildPersonalityExport(user)
}

func buildPersonalityExport(user domain.User) (PersonalityExport, error) {
	text, err := renderPersonalityExport(user)
	if err != nil {
		return PersonalityExport{}, err
	}
	return PersonalityExport{
		Text: text,
		Metadata: ExportMetadata{
			UserID:          user.ID,
			Email:           user.Email,
			PersonalityType: user.PersonalityType,
			CompletedAt:     user.Personality.CompletedAt,
		},
	}, nil
}

func (s *QuizService) completedUser(ctx context.Context, userID string, authorize bool) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, ErrQuizNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.User{}, fmt.Errorf("%w: user id is required", ErrQuizInvalidInput)
	}
	if !isUserID(userID) {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, strings.ToLower(userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if authorize {
		if err := authorizeOwner(ctx, user); err != nil {
			return domain.User{}, err
		}
	}
	if !user.PersonalityCompleted() {
		return domain.User{}, ErrQuizNotCompleted
	}
	return user, nil
}

func decodeDimensions(raw json.RawMessage) []personality.DimensionResult {
	if len(raw) == 0 {
		return nil
	}
	var dims []personality.DimensionResult
	if err := json.Unmarshal(raw, &dims); err != nil {
		return nil
	}
	return dims
}
