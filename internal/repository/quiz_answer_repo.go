package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"ditto/internal/domain"
)

type QuizAnswerRepository interface {
	Upsert(ctx context.Context, answer domain.QuizAnswer) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.QuizAnswer, error)
}

type PgQuizAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuizAnswerRepository(pool *pgxpool.Pool) *PgQuizAnswerRepository {
	return &PgQuizAnswerRepository{pool: pool}
}

// Upsert guarda la respuesta; responder de nuevo la misma pregunta en la
// misma sesion reemplaza la anterior.
func (r *PgQuizAnswerRepository) Upsert(ctx context.Context, answer domain.QuizAnswer) error {
	const query = `
		INSERT INTO quiz_answers (id, session_id, question_num, question_id, question_text, answer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, question_num)
		DO UPDATE SET
			question_id = EXCLUDED.question_id,
			question_text = EXCLUDED.question_text,
			answer = EXCLUDED.answer,
			created_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query,
		answer.ID,
		answer.SessionID,
		answer.QuestionNum,
		answer.QuestionID,
		answer.QuestionText,
		answer.Answer,
		answer.CreatedAt,
	)
	return err
}

func (r *PgQuizAnswerRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.QuizAnswer, error) {
	const query = `
		SELECT id, session_id, question_num, question_id, question_text, answer, created_at
		FROM quiz_answers
		WHERE session_id = $1
		ORDER BY question_num ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.QuizAnswer
	for rows.Next() {
		var a domain.QuizAnswer
		if err := rows.Scan(
			&a.ID,
			&a.SessionID,
			&a.QuestionNum,
			&a.QuestionID,
			&a.QuestionText,
			&a.Answer,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return answers, nil
}
