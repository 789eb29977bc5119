package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ditto/internal/domain"
	"ditto/internal/email"
	"ditto/internal/repository"
)

// UserService maneja las cuentas: alta, login por OTP, password u OAuth, y
// el mapeo de sessionId a usuario que usan el quiz y el diario.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	otpLimiter  RateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, otpLimiter RateLimiter) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if otpLimiter == nil {
		otpLimiter = NewMemoryRateLimiter(otpTTL, otpRequestsPerTTL)
	}
	return &UserService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		otpLimiter:  otpLimiter,
	}
}

type CreateUserInput struct {
	Email           string
	DisplayName     string
	AuthProvider    string
	AuthSubject     string
	Password        string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	OtpCodeHash     string
	OtpExpiresAt    *time.Time
}

type OAuthInput struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotRequested    = errors.New("otp not requested")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPInvalid         = errors.New("otp invalid")
	ErrOAuthInvalid       = errors.New("oauth data invalid")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidSession     = errors.New("invalid session id")

	errUsersNotConfigured = errors.New("user service not configured")
)

const (
	otpTTL            = 10 * time.Minute
	otpRequestsPerTTL = 3

	// Los usuarios demo viven en este dominio; ninguna cuenta real puede usarlo.
	demoEmailDomain = "@ditto.local"
)

// CreateUser da de alta una cuenta registrada. El provider demo y los mails
// del dominio demo quedan reservados para ResolveSessionUser.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	emailAddr, err := accountEmail(input.Email)
	if err != nil {
		return domain.User{}, err
	}
	provider := strings.ToLower(strings.TrimSpace(input.AuthProvider))
	if provider == domain.AuthProviderDemo {
		return domain.User{}, ErrOAuthInvalid
	}

	passwordHash := strings.TrimSpace(input.PasswordHash)
	if password := strings.TrimSpace(input.Password); passwordHash == "" && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		passwordHash = string(hashed)
	}

	user := newAccount(emailAddr, input.DisplayName)
	user.AuthProvider = provider
	user.AuthSubject = strings.TrimSpace(input.AuthSubject)
	user.PasswordHash = passwordHash
	user.EmailVerifiedAt = input.EmailVerifiedAt
	user.OtpCodeHash = input.OtpCodeHash
	user.OtpExpiresAt = input.OtpExpiresAt
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate valida email y password. Cualquier fallo es ErrInvalidCredentials
// para no revelar que cuentas existen.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.userByEmail(ctx, emailAddr)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return domain.User{}, ErrInvalidCredentials
	case err != nil:
		return domain.User{}, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpsertOAuthUser resuelve el callback del proveedor: misma identidad, misma
// cuenta; si el email ya existe se vincula; si no, se crea verificada.
func (s *UserService) UpsertOAuthUser(ctx context.Context, input OAuthInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	subject := strings.TrimSpace(input.Subject)
	emailAddr := normalizeEmail(input.Email)
	if provider == "" || subject == "" || provider == domain.AuthProviderDemo || isDemoEmail(emailAddr) {
		return domain.User{}, ErrOAuthInvalid
	}

	user, err := s.users.GetByAuth(ctx, provider, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	if emailAddr != "" {
		existing, err := s.userByEmail(ctx, emailAddr)
		if err == nil {
			return s.linkOAuth(ctx, existing, provider, subject, input.DisplayName, now)
		}
		if !errors.Is(err, ErrUserNotFound) {
			return domain.User{}, err
		}
	}

	user = newAccount(emailAddr, input.DisplayName)
	user.AuthProvider = provider
	user.AuthSubject = subject
	user.EmailVerifiedAt = &now
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("oauth user created", zap.String("user_id", user.ID), zap.String("provider", provider))
	return user, nil
}

func (s *UserService) linkOAuth(ctx context.Context, user domain.User, provider, subject, displayName string, now time.Time) (domain.User, error) {
	if err := s.users.LinkOAuth(ctx, user.ID, provider, subject); err != nil {
		return domain.User{}, err
	}
	if err := s.users.VerifyEmail(ctx, user.ID, now); err != nil {
		return domain.User{}, err
	}
	user.AuthProvider = provider
	user.AuthSubject = subject
	user.EmailVerifiedAt = &now
	if name := strings.TrimSpace(displayName); name != "" && user.DisplayName == "" {
		user.DisplayName = name
	}
	return user, nil
}

// RequestOTP manda un codigo de 6 digitos por mail, creando la cuenta si no
// existia. El limiter cuenta pedidos por email.
func (s *UserService) RequestOTP(ctx context.Context, emailAddr, displayName string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	emailAddr, err := accountEmail(emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	if !s.otpLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.userByEmail(ctx, emailAddr)
	if errors.Is(err, ErrUserNotFound) {
		user = newAccount(emailAddr, displayName)
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		return domain.User{}, err
	}

	code, hash, expiresAt, err := generateOTP()
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdateOTP(ctx, user.ID, hash, expiresAt); err != nil {
		return domain.User{}, err
	}
	if s.emailSender == nil {
		return domain.User{}, ErrEmailSendFailure
	}
	if err := s.emailSender.SendVerificationOTP(ctx, emailAddr, code, expiresAt); err != nil {
		s.logger.Warn("send verification otp failed", zap.Error(err), zap.String("user_id", user.ID))
		return domain.User{}, ErrEmailSendFailure
	}

	user.OtpExpiresAt = &expiresAt
	return user, nil
}

// VerifyOTP consume el codigo y marca el email como verificado.
func (s *UserService) VerifyOTP(ctx context.Context, emailAddr, code string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if !isValidOTPCode(code) {
		return domain.User{}, ErrOTPInvalid
	}

	user, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	now := time.Now().UTC()
	if err := checkOTP(user, code, now); err != nil {
		return domain.User{}, err
	}
	if err := s.users.VerifyEmail(ctx, user.ID, now); err != nil {
		return domain.User{}, err
	}

	user.EmailVerifiedAt = &now
	user.OtpCodeHash = ""
	user.OtpExpiresAt = nil
	return user, nil
}

func checkOTP(user domain.User, code string, now time.Time) error {
	switch {
	case user.OtpCodeHash == "" || user.OtpExpiresAt == nil:
		return ErrOTPNotRequested
	case now.After(*user.OtpExpiresAt):
		return ErrOTPExpired
	case !verifyOTP(code, user.OtpCodeHash):
		return ErrOTPInvalid
	}
	return nil
}

func (s *UserService) userByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func newAccount(emailAddr, displayName string) domain.User {
	return domain.User{
		ID:          uuid.NewString(),
		Email:       emailAddr,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   time.Now().UTC(),
	}
}

// accountEmail normaliza el email de una cuenta registrada.
func accountEmail(raw string) (string, error) {
	emailAddr := normalizeEmail(raw)
	if emailAddr == "" || isDemoEmail(emailAddr) {
		return "", ErrInvalidEmail
	}
	return emailAddr, nil
}

func isDemoEmail(emailAddr string) bool {
	return strings.HasSuffix(emailAddr, demoEmailDomain)
}

// ResolveSessionUser traduce el sessionId que envian el quiz y el diario en un
// usuario. Un UUID es el ID de un usuario ya registrado y exige que el caller
// sea ese usuario; cualquier otro valor identifica a un usuario demo que se
// crea la primera vez que se usa.
func (s *UserService) ResolveSessionUser(ctx context.Context, sessionID string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.User{}, ErrInvalidSession
	}
	if isUserID(sessionID) {
		return s.ownedUser(ctx, sessionID)
	}

	// Mismo casing para subject y email: ambos son unicos en la tabla.
	key := strings.ToLower(sessionID)
	subject := "demo_" + key
	user, err := s.users.GetByAuth(ctx, domain.AuthProviderDemo, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:           uuid.NewString(),
		Email:        "demo-" + key + demoEmailDomain,
		DisplayName:  "Demo User",
		AuthProvider: domain.AuthProviderDemo,
		AuthSubject:  subject,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("demo user created", zap.String("user_id", user.ID))
	return user, nil
}

// AuthorizeSession valida que el caller pueda usar sessionID sin crear nada.
// Las sesiones demo siempre pasan.
func (s *UserService) AuthorizeSession(ctx context.Context, sessionID string) error {
	if s.users == nil {
		return errUsersNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrInvalidSession
	}
	if !isUserID(sessionID) {
		return nil
	}
	_, err := s.ownedUser(ctx, sessionID)
	return err
}

func (s *UserService) ownedUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, strings.ToLower(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if err := authorizeOwner(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetUser busca un usuario por ID y traduce la ausencia a ErrUserNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errUsersNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func generateOTP() (string, string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", time.Time{}, err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", time.Time{}, err
	}
	saltStr := base64.StdEncoding.EncodeToString(salt)
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])

	expiresAt := time.Now().UTC().Add(otpTTL)
	return code, saltStr + ":" + hash, expiresAt, nil
}

func verifyOTP(code, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		return false
	}
	saltStr := parts[0]
	expectedHash := parts[1]
	hashBytes := sha256.Sum256([]byte(saltStr + ":" + code))
	hash := base64.StdEncoding.EncodeToString(hashBytes[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(expectedHash)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
