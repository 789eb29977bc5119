package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"ditto/internal/domain"
)

var (
	ErrSessionUnauthenticated = errors.New("session belongs to a registered user, sign in first")
	ErrSessionForbidden       = errors.New("session belongs to another user")
)

type claimsContextKey struct{}

// ContextWithClaims adjunta al contexto el usuario autenticado del request.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext devuelve el usuario autenticado, si lo hay.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(Claims)
	return claims, ok
}

// authorizeOwner decide si el caller puede leer o escribir datos de owner.
// Los usuarios demo no tienen credenciales y quedan abiertos; los registrados
// solo aceptan a su propio access token.
func authorizeOwner(ctx context.Context, owner domain.User) error {
	if owner.AuthProvider == domain.AuthProviderDemo {
		return nil
	}
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ErrSessionUnauthenticated
	}
	if !strings.EqualFold(claims.UserID, owner.ID) {
		return ErrSessionForbidden
	}
	return nil
}

// isUserID acepta solo la forma canonica 8-4-4-4-12 de un UUID.
func isUserID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
