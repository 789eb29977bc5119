package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ditto/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtServ *service.JWTService,
	healthH *HealthHandler,
	userH *UserHandler,
	quizH *QuizHandler,
	diaryH *DiaryHandler,
	twinH *TwinHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Health)

	requireAuth := RequireAuth(jwtServ)

	users := r.Group("/users")
	users.POST("", userH.CreateUser)
	users.GET("/me", requireAuth, userH.Me)

	auth := r.Group("/auth")
	auth.POST("/otp/request", userH.RequestOTP)
	auth.POST("/otp/verify", userH.VerifyOTP)
	auth.POST("/oauth", userH.OAuthLogin)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	// Quiz, resultados y diario aceptan sesiones demo sin token. Los datos de
	// una cuenta registrada solo los toca su dueño.
	sessions := r.Group("", OptionalAuth(jwtServ))

	quiz := sessions.Group("/quiz")
	quiz.GET("/questions", quizH.Questions)
	quiz.POST("/answers", quizH.RecordAnswer)
	quiz.GET("/answers", quizH.ListAnswers)
	quiz.POST("/submit", quizH.Submit)

	sessions.POST("/personality/save", quizH.SavePersonality)
	sessions.GET("/personality", quizH.GetPersonality)
	sessions.GET("/export/personality", quizH.ExportPersonality)
	sessions.GET("/export/diary", diaryH.ExportDiary)

	sessions.POST("/diary", diaryH.CreateEntry)
	r.GET("/diary", requireAuth, diaryH.ListEntries)

	twin := r.Group("/twin", requireAuth)
	twin.POST("/sync", twinH.Sync)
	twin.POST("/ask", twinH.Ask)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
