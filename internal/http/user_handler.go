package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/domain"
	"ditto/internal/service"
)

// UserHandler cubre el alta de cuentas y los tres caminos de login (OTP,
// password y OAuth). Todos terminan en el mismo par de tokens.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUser maneja POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	if !bindRequest(c, h.logger, &req, "create user") {
		return
	}

	user, err := h.userServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Me maneja GET /users/me: perfil del usuario autenticado y estado del quiz.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		abortUnauthorized(c, "missing token")
		return
	}
	user, err := h.userServ.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, err, "could not load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":                 user,
		"personalityCompleted": user.PersonalityCompleted(),
	})
}

// RequestOTP maneja POST /auth/otp/request. El codigo viaja por mail.
func (h *UserHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name"`
	}
	if !bindRequest(c, h.logger, &req, "otp request") {
		return
	}

	if _, err := h.userServ.RequestOTP(c.Request.Context(), req.Email, req.DisplayName); err != nil {
		respondError(c, h.logger, err, "could not request otp")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "otp_sent"})
}

// VerifyOTP maneja POST /auth/otp/verify.
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if !bindRequest(c, h.logger, &req, "otp verify") {
		return
	}

	user, err := h.userServ.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	h.signIn(c, user, err, "could not verify otp")
}

// OAuthLogin maneja POST /auth/oauth, el callback del proveedor externo.
func (h *UserHandler) OAuthLogin(c *gin.Context) {
	var req struct {
		Provider    string `json:"provider" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		Email       string `json:"email" binding:"email"`
		DisplayName string `json:"display_name"`
	}
	if !bindRequest(c, h.logger, &req, "oauth") {
		return
	}

	user, err := h.userServ.UpsertOAuthUser(c.Request.Context(), service.OAuthInput{
		Provider:    req.Provider,
		Subject:     req.Subject,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	h.signIn(c, user, err, "could not complete oauth")
}

// Login maneja POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if !bindRequest(c, h.logger, &req, "login") {
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	h.signIn(c, user, err, "could not login")
}

// RefreshToken maneja POST /auth/refresh. El refresh usado queda revocado.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bindRequest(c, h.logger, &req, "refresh") || !h.jwtReady(c) {
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err, "could not refresh tokens")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout. Revocar un token ya invalido no es error.
func (h *UserHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if !bindRequest(c, h.logger, &req, "logout") || !h.jwtReady(c) {
		return
	}
	if err := h.jwtServ.RevokeRefresh(req.RefreshToken); err != nil {
		h.logger.Debug("logout with unusable refresh token", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// signIn cierra los tres logins: error del servicio o usuario mas tokens.
func (h *UserHandler) signIn(c *gin.Context, user domain.User, err error, fallback string) {
	if err != nil {
		respondError(c, h.logger, err, fallback)
		return
	}
	if !h.jwtReady(c) {
		return
	}
	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		respondError(c, h.logger, err, "could not issue tokens")
		return
	}
	h.logger.Info("user signed in", zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

func (h *UserHandler) jwtReady(c *gin.Context) bool {
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return false
	}
	return true
}
