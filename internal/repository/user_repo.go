package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ditto/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByAuth(ctx context.Context, provider, subject string) (domain.User, error)
	UpdateOTP(ctx context.Context, id, otpHash string, otpExpiresAt time.Time) error
	VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error
	LinkOAuth(ctx context.Context, id, provider, subject string) error
	SavePersonality(ctx context.Context, id string, record domain.PersonalityRecord) error
	// SetTwin guarda los IDs del gemelo solo si el usuario aun no tiene uno;
	// devuelve false si ya estaba asignado.
	SetTwin(ctx context.Context, id, assistantID, threadID string) (bool, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, display_name, auth_provider, auth_subject, password_hash,
	email_verified_at, otp_code_hash, otp_expires_at,
	personality_type, personality_data, twin_assistant_id, twin_thread_id, created_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, display_name, auth_provider, auth_subject, password_hash,
			email_verified_at, otp_code_hash, otp_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		nullableString(user.AuthProvider),
		nullableString(user.AuthSubject),
		nullableString(user.PasswordHash),
		user.EmailVerifiedAt,
		nullableString(user.OtpCodeHash),
		user.OtpExpiresAt,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PgUserRepository) GetByAuth(ctx context.Context, provider, subject string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE auth_provider = $1 AND auth_subject = $2`, provider, subject)
}

func (r *PgUserRepository) UpdateOTP(ctx context.Context, id, otpHash string, otpExpiresAt time.Time) error {
	const query = `UPDATE users SET otp_code_hash = $2, otp_expires_at = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, otpHash, otpExpiresAt)
}

func (r *PgUserRepository) VerifyEmail(ctx context.Context, id string, verifiedAt time.Time) error {
	const query = `
		UPDATE users
		SET email_verified_at = $2, otp_code_hash = NULL, otp_expires_at = NULL
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, verifiedAt)
}

func (r *PgUserRepository) LinkOAuth(ctx context.Context, id, provider, subject string) error {
	const query = `UPDATE users SET auth_provider = $2, auth_subject = $3 WHERE id = $1`
	return r.execOne(ctx, query, id, provider, subject)
}

func (r *PgUserRepository) SavePersonality(ctx context.Context, id string, record domain.PersonalityRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	const query = `
		UPDATE users
		SET personality_completed = TRUE, personality_type = $2, personality_data = $3
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, record.Type, data)
}

func (r *PgUserRepository) SetTwin(ctx context.Context, id, assistantID, threadID string) (bool, error) {
	const query = `
		UPDATE users
		SET twin_assistant_id = $2, twin_thread_id = $3
		WHERE id = $1 AND twin_thread_id IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, id, assistantID, threadID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	var (
		u                                            domain.User
		authProvider, authSubject, passwordHash, otp *string
		personalityType, assistantID, threadID       *string
		personalityData                              []byte
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&authProvider,
		&authSubject,
		&passwordHash,
		&u.EmailVerifiedAt,
		&otp,
		&u.OtpExpiresAt,
		&personalityType,
		&personalityData,
		&assistantID,
		&threadID,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.AuthProvider = deref(authProvider)
	u.AuthSubject = deref(authSubject)
	u.PasswordHash = deref(passwordHash)
	u.OtpCodeHash = deref(otp)
	u.PersonalityType = deref(personalityType)
	u.TwinAssistantID = deref(assistantID)
	u.TwinThreadID = deref(threadID)
	if len(personalityData) > 0 {
		var record domain.PersonalityRecord
		if err := json.Unmarshal(personalityData, &record); err != nil {
			return domain.User{}, err
		}
		u.Personality = &record
	}
	return u, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
