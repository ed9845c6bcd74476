package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"unibot/internal/config"
	"unibot/internal/db"
	apihttp "unibot/internal/http"
	"unibot/internal/llm"
	"unibot/internal/repository"
	"unibot/internal/service"
	"unibot/migrations"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

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

	if err := db.ApplySchema(ctx, pool, migrations.FS); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	courseRepo := repository.NewPgCourseRepository(pool)
	enrollmentRepo := repository.NewPgEnrollmentRepository(pool)
	assignmentRepo := repository.NewPgAssignmentRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)
	chatRepo := repository.NewPgChatRepository(pool)

	llmSettings := cfg.LLM()
	var llmClient llm.ChatCompleter
	if llmSettings.HasValidCredential() {
		llmClient = llm.NewHTTPClient(llmSettings.BaseURL, llmSettings.APIKey, llmSettings.Model, llmSettings.Timeout, logger)
	} else {
		logger.Warn("llm api key not configured, using rule-based responses")
	}

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
	)
	if redisClient := openRedis(ctx, cfg, logger); redisClient != nil {
		defer redisClient.Close()
		loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
		tokenStore = service.NewRedisRefreshTokenStore(redisClient)
	}
	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	builder := service.NewEnrollmentContextBuilder(enrollmentRepo, assignmentRepo)
	fallback := service.NewFallbackResponder(userRepo, enrollmentRepo, assignmentRepo, logger)
	router := service.NewResponseRouter(llmSettings, llmClient, builder, fallback, logger)
	chatSvc := service.NewChatService(chatRepo, router)
	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, assignmentRepo, feedbackRepo)

	engine := apihttp.NewRouter(
		logger,
		jwtSvc,
		apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		apihttp.NewChatHandler(logger, chatSvc),
		apihttp.NewCourseHandler(logger, courseSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.WithCORS(engine, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openRedis devuelve nil si no hay REDIS_ADDR o si no responde; en ese caso
// el cliente se cierra y los stores quedan en memoria.
func openRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
