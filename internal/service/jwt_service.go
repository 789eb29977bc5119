package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ditto/internal/domain"
)

const (
	jwtIssuer = "ditto"

	accessKind  = "access"
	refreshKind = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

var (
	ErrJWTInvalid  = errors.New("jwt invalid")
	ErrJWTExpired  = errors.New("jwt expired")
	ErrJWTDemoUser = errors.New("demo users do not get tokens")
)

// JWTService emite las credenciales de las cuentas registradas. El access
// token es lo que prueba que un sessionId con forma de UUID pertenece al
// caller; los usuarios demo trabajan sin tokens.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      RefreshTokenStore
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	UserID        string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	AuthProvider  string `json:"auth_provider,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	TokenType     string `json:"typ"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return NewJWTServiceWithStore(secret, accessTTL, refreshTTL, nil)
}

// NewJWTServiceWithStore usa store para los refresh tokens; con nil guarda en memoria.
func NewJWTServiceWithStore(secret string, accessTTL, refreshTTL time.Duration, store RefreshTokenStore) *JWTService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if store == nil {
		store = NewMemoryRefreshTokenStore()
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
	}
}

// GeneratePair emite access y refresh para una cuenta registrada.
func (s *JWTService) GeneratePair(user domain.User) (TokenPair, error) {
	if len(s.secret) == 0 || strings.TrimSpace(user.ID) == "" {
		return TokenPair{}, ErrJWTInvalid
	}
	if user.AuthProvider == domain.AuthProviderDemo {
		return TokenPair{}, ErrJWTDemoUser
	}

	now := time.Now().UTC()
	access, _, err := s.sign(user, accessKind, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, jti, err := s.sign(user, refreshKind, now)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Store(jti, user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// RefreshPair rota el refresh token: el usado queda revocado.
func (s *JWTService) RefreshPair(token string) (TokenPair, error) {
	claims, err := s.parse(token, refreshKind)
	if err != nil {
		return TokenPair{}, err
	}
	owner, ok, err := s.store.Consume(claims.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("consume refresh token: %w", err)
	}
	if !ok || owner != claims.UserID {
		return TokenPair{}, ErrJWTInvalid
	}
	return s.GeneratePair(claims.user())
}

func (s *JWTService) RevokeRefresh(token string) error {
	claims, err := s.parse(token, refreshKind)
	if err != nil {
		return err
	}
	return s.store.Revoke(claims.ID)
}

func (s *JWTService) ParseAccessToken(token string) (Claims, error) {
	return s.parse(token, accessKind)
}

// sign firma un token del tipo pedido. Solo los refresh llevan jti.
func (s *JWTService) sign(user domain.User, kind string, now time.Time) (string, string, error) {
	ttl := s.accessTTL
	var jti string
	if kind == refreshKind {
		ttl = s.refreshTTL
		jti = uuid.NewString()
	}
	claims := Claims{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		AuthProvider:  user.AuthProvider,
		EmailVerified: user.EmailVerifiedAt != nil,
		TokenType:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    jwtIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return signed, jti, err
}

// parse valida firma, emisor, expiracion y tipo en un solo paso.
func (s *JWTService) parse(token, kind string) (Claims, error) {
	token = strings.TrimSpace(token)
	if len(s.secret) == 0 || token == "" {
		return Claims{}, ErrJWTInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrJWTExpired
	case err != nil:
		return Claims{}, ErrJWTInvalid
	}

	if claims.TokenType != kind || strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return Claims{}, ErrJWTInvalid
	}
	if kind == refreshKind && claims.ID == "" {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

// user reconstruye lo necesario para reemitir tokens sin ir a la base.
func (c Claims) user() domain.User {
	user := domain.User{
		ID:           c.UserID,
		Email:        c.Email,
		DisplayName:  c.DisplayName,
		AuthProvider: c.AuthProvider,
	}
	if c.EmailVerified {
		verified := time.Now().UTC()
		user.EmailVerifiedAt = &verified
	}
	return user
}
