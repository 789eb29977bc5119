package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ditto/internal/domain"
)

type DiaryRepository interface {
	Create(ctx context.Context, entry domain.DiaryEntry) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error)
	// ListChronological devuelve todas las entradas, la mas antigua primero.
	ListChronological(ctx context.Context, userID string) ([]domain.DiaryEntry, error)
}

type PgDiaryRepository struct {
	pool *pgxpool.Pool
}

func NewPgDiaryRepository(pool *pgxpool.Pool) *PgDiaryRepository {
	return &PgDiaryRepository{pool: pool}
}

func (r *PgDiaryRepository) Create(ctx context.Context, entry domain.DiaryEntry) error {
	const query = `
		INSERT INTO diary_entries (id, user_id, content, entry_date, created_at)
		VALUES ($1, $2, $3, to_date($4, 'YYYY-MM-DD'), $5)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Content,
		entry.EntryDate,
		entry.CreatedAt,
	)
	return err
}

func (r *PgDiaryRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.DiaryEntry, error) {
	const query = `
		SELECT id, user_id, content, to_char(entry_date, 'YYYY-MM-DD'), created_at
		FROM diary_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanDiaryEntries(rows)
}

func (r *PgDiaryRepository) ListChronological(ctx context.Context, userID string) ([]domain.DiaryEntry, error) {
	const query = `
		SELECT id, user_id, content, to_char(entry_date, 'YYYY-MM-DD'), created_at
		FROM diary_entries
		WHERE user_id = $1
		ORDER BY entry_date ASC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanDiaryEntries(rows)
}

func scanDiaryEntries(rows pgx.Rows) ([]domain.DiaryEntry, error) {
	defer rows.Close()

	var entries []domain.DiaryEntry
	for rows.Next() {
		var e domain.DiaryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.EntryDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
