package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ditto/internal/domain"
	"ditto/internal/repository"
)

const (
	diaryPlaceholder  = "Start writing..."
	defaultDiaryLimit = 50
	maxDiaryListLimit = 200
)

var (
	ErrDiaryNotConfigured = errors.New("diary service not configured")
	ErrDiaryEmptyContent  = errors.New("content is required")
	ErrDiaryNoEntries     = errors.New("no diary entries found for this user")
)

// DiaryService guarda las entradas del diario del usuario.
type DiaryService struct {
	entries  repository.DiaryRepository
	resolver SessionUserResolver
	logger   *zap.Logger
	now      func() time.Time
}

func NewDiaryService(entries repository.DiaryRepository, resolver SessionUserResolver, logger *zap.Logger) *DiaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiaryService{
		entries:  entries,
		resolver: resolver,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create valida el texto, resuelve el dueño de la sesion y guarda la entrada.
func (s *DiaryService) Create(ctx context.Context, sessionID, content string) (domain.DiaryEntry, error) {
	if s == nil || s.entries == nil || s.resolver == nil {
		return domain.DiaryEntry{}, ErrDiaryNotConfigured
	}
	content = strings.TrimSpace(content)
	if content == "" || content == diaryPlaceholder {
		return domain.DiaryEntry{}, ErrDiaryEmptyContent
	}

	user, err := s.resolver.ResolveSessionUser(ctx, sessionID)
	if err != nil {
		return domain.DiaryEntry{}, fmt.Errorf("resolve session user: %w", err)
	}

	now := s.now()
	entry := domain.DiaryEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Content:   content,
		EntryDate: now.Format("2006-01-02"),
		CreatedAt: now,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return domain.DiaryEntry{}, fmt.Errorf("save diary entry: %w", err)
	}
	s.logger.Info("diary entry saved", zap.String("user_id", user.ID), zap.String("entry_id", entry.ID))
	return entry, nil
}

// List devuelve las entradas mas recientes primero.
func (s *DiaryService) List(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error) {
	if s == nil || s.entries == nil {
		return nil, ErrDiaryNotConfigured
	}
	if limit <= 0 {
		limit = defaultDiaryLimit
	}
	if limit > maxDiaryListLimit {
		limit = maxDiaryListLimit
	}
	return s.entries.ListByUserID(ctx, userID, limit)
}

type DiaryDateRange struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type DiaryExportMetadata struct {
	UserID     string         `json:"userId"`
	EntryCount int            `json:"entryCount"`
	DateRange  DiaryDateRange `json:"dateRange"`
}

type DiaryExport struct {
	Text     string              `json:"diaryText"`
	Metadata DiaryExportMetadata `json:"metadata"`
}

// Export arma el diario completo como texto: fecha larga, contenido y una
// linea en blanco entre entradas.
func (s *DiaryService) Export(ctx context.Context, userID string) (DiaryExport, error) {
	if s == nil || s.entries == nil {
		return DiaryExport{}, ErrDiaryNotConfigured
	}
	userID = strings.ToLower(strings.TrimSpace(userID))
	if !isUserID(userID) {
		return DiaryExport{}, ErrUserNotFound
	}
	if s.resolver == nil {
		return DiaryExport{}, ErrDiaryNotConfigured
	}
	if err := s.resolver.AuthorizeSession(ctx, userID); err != nil {
		return DiaryExport{}, err
	}
	entries, err := s.entries.ListChronological(ctx, userID)
	if err != nil {
		return DiaryExport{}, fmt.Errorf("list diary entries: %w", err)
	}
	if len(entries) == 0 {
		return DiaryExport{}, ErrDiaryNoEntries
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, formatEntryDate(e.EntryDate)+"\n"+e.Content)
	}
	return DiaryExport{
		Text: strings.Join(blocks, "\n\n"),
		Metadata: DiaryExportMetadata{
			UserID:     userID,
			EntryCount: len(entries),
			DateRange: DiaryDateRange{
				First: entries[0].EntryDate,
				Last:  entries[len(entries)-1].EntryDate,
			},
		},
	}, nil
}

// formatEntryDate convierte 2006-01-02 en "January 2, 2006"; si no parsea
// se deja tal cual.
func formatEntryDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}
