package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ditto/internal/service"
)

// RequireAuth exige un access token valido.
func RequireAuth(jwtSvc *service.JWTService) gin.HandlerFunc {
	return authMiddleware(jwtSvc, true)
}

// OptionalAuth identifica al caller cuando manda token y deja pasar sin el,
// para que las sesiones demo sigan funcionando. Un token invalido se rechaza
// igual: el cliente quiso autenticarse y fallo.
func OptionalAuth(jwtSvc *service.JWTService) gin.HandlerFunc {
	return authMiddleware(jwtSvc, false)
}

func authMiddleware(jwtSvc *service.JWTService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			if required {
				abortUnauthorized(c, "missing token")
				return
			}
			c.Next()
			return
		}
		if jwtSvc == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			return
		}

		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, service.ErrJWTExpired) {
				abortUnauthorized(c, "token expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		// Los servicios leen el caller del contexto del request.
		c.Request = c.Request.WithContext(service.ContextWithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetAuthClaims devuelve el usuario autenticado del request.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	return service.ClaimsFromContext(c.Request.Context())
}
