package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ditto/internal/config"
	"ditto/internal/db"
	"ditto/internal/email"
	apihttp "ditto/internal/http"
	"ditto/internal/memory"
	"ditto/internal/repository"
	"ditto/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	answerRepo := repository.NewPgQuizAnswerRepository(pool)
	diaryRepo := repository.NewPgDiaryRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		otpLimiter  service.RateLimiter
		askLimiter  = service.NewMemoryRateLimiter(time.Minute, cfg.TwinAskPerMinute)
		tokenStore  service.RefreshTokenStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			otpLimiter = service.NewRedisRateLimiter(redisClient, service.OTPLimitPrefix, 10*time.Minute, 3)
			askLimiter = service.NewRedisRateLimiter(redisClient, service.AskLimitPrefix, time.Minute, cfg.TwinAskPerMinute)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	var memoryClient memory.Client
	if cfg.BackboardAPIKey != "" {
		memoryClient = memory.NewHTTPClient(cfg.BackboardBaseURL, cfg.BackboardAPIKey, logger)
	} else {
		logger.Warn("backboard api key not configured, twin memory disabled")
	}

	userSvc := service.NewUserService(logger, userRepo, emailSender, otpLimiter)
	quizSvc := service.NewQuizService(answerRepo, userRepo, userSvc, logger)
	diarySvc := service.NewDiaryService(diaryRepo, userSvc, logger)
	twinSvc := service.NewTwinService(memoryClient, userRepo, quizSvc, cfg.BackboardModel, logger).
		WithAskLimiter(askLimiter)

	router := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewHealthHandler(logger, pool),
		apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		apihttp.NewQuizHandler(logger, quizSvc, twinSvc),
		apihttp.NewDiaryHandler(logger, diarySvc, twinSvc),
		apihttp.NewTwinHandler(logger, twinSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
