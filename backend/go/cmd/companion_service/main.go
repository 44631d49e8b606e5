package main

import (
	"Lumina_AI/backend/go/internal/companion_service/api"
	"Lumina_AI/backend/go/internal/companion_service/service"
	"Lumina_AI/backend/go/internal/companion_service/store"
	"Lumina_AI/backend/go/internal/config"
	"Lumina_AI/backend/go/internal/database/mysql"
	"Lumina_AI/backend/go/internal/database/redis"
	"Lumina_AI/backend/go/internal/llm"
	"Lumina_AI/backend/go/internal/models"
	"Lumina_AI/backend/go/internal/sentiment"
	"Lumina_AI/backend/go/pkg/logger"
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("companion_service", "", "")

	appLogger.Info("Logger initialized")

	ctx := context.Background()

	// Initialize Redis. The chat and profile stores degrade gracefully when
	// Redis is unreachable, so a failure here is logged but not fatal.
	var kv store.KV
	redisClient, err := redis.NewClient(ctx, &cfg.Databases.Redis)
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, chat and profile features degraded")
	} else {
		defer redisClient.Close()
		kv = store.NewRedisKV(redisClient)
		appLogger.Info("Redis connection established")
	}

	// Initialize MySQL
	db, err := mysql.NewDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer mysql.Close(db)
	appLogger.Info("MySQL connection established")

	// Auto-migrate database schema
	if err := db.AutoMigrate(&models.User{}, &models.EmotionLog{}, &models.Goal{}); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("Database migration completed")

	// Initialize LLM client
	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	// Gemini 客户端持有 gRPC 连接，退出时需要释放。
	if closer, ok := llmClient.(io.Closer); ok {
		defer closer.Close()
	}
	appLogger.Info("LLM client initialized")

	// Initialize sentiment classifier
	classifier := sentiment.NewHuggingFace(cfg.Sentiment)

	// Initialize dependencies (Store -> Service -> Handler)
	userStore := store.NewUserStore(db)
	emotionStore := store.NewEmotionStore(db)
	goalStore := store.NewGoalStore(db)
	factStore := store.NewFactStore(kv, appLogger)
	sessionStore := store.NewSessionStore(kv, appLogger)

	authService := service.NewAuthService(userStore, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	affectService := service.NewAffectService(classifier, emotionStore, appLogger)
	modeRouter := service.NewRouter(llmClient, cfg.LLM, appLogger)
	orchestrator := service.NewOrchestrator(sessionStore, factStore, goalStore, affectService, modeRouter, llmClient, cfg.LLM, appLogger)
	decomposer := service.NewDecomposer(llmClient, cfg.LLM, appLogger)
	appLogger.Info("Dependencies injected")

	// Setup Gin router
	handler := api.NewHandler(authService, orchestrator, decomposer, sessionStore, goalStore, appLogger)
	router := api.SetupRouter(handler, cfg)

	serverAddress := cfg.App.Address
	if serverAddress == "" {
		serverAddress = ":8000"
	}

	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting server on " + serverAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err.Error())
		}
	}()

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("server shutdown failed")
	}
	appLogger.Info("Server stopped")
}
