package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"spellingbee/internal/catalog"
	"spellingbee/internal/config"
	"spellingbee/internal/database"
	"spellingbee/internal/handlers"
	"spellingbee/internal/history"
	"spellingbee/internal/logger"
	"spellingbee/internal/practice"
	"spellingbee/internal/repository"
	"spellingbee/internal/speech"
)

func main() {
	// .env is optional, environment variables win
	_ = godotenv.Load()

	port := pflag.String("port", "", "HTTP listen port (overrides config)")
	dictionaryPath := pflag.String("dictionary", "", "dictionary JSON path (overrides config)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		cfg.ServerPort = *port
	}
	if *dictionaryPath != "" {
		cfg.DictionaryPath = *dictionaryPath
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	words, err := catalog.LoadFile(cfg.DictionaryPath)
	if err != nil {
		zl.Fatal("Failed to load dictionary", zap.String("path", cfg.DictionaryPath), zap.Error(err))
	}
	zl.Info("Dictionary loaded",
		zap.String("name", words.Name),
		zap.Int("words", len(words.Words)),
	)

	// Attempt history persists to SQL when a database is configured,
	// otherwise it lives in memory for the lifetime of the process.
	var store practice.HistoryStore
	if cfg.DatabaseType == "" {
		zl.Info("No database configured, keeping attempt history in memory")
		store = history.NewMemoryStore()
	} else {
		db, err := database.Initialize(cfg)
		if err != nil {
			zl.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.MigrationsPath, zl); err != nil {
			zl.Fatal("Failed to run migrations", zap.Error(err))
		}
		zl.Info("Database ready", zap.String("type", cfg.DatabaseType))

		store = repository.NewAttemptHistoryRepository(db, zl)
	}

	coordinator, err := speech.NewCoordinator(cfg.TTS, zl)
	if err != nil {
		zl.Fatal("Failed to configure speech engines", zap.Error(err))
	}
	zl.Info("Speech engine bound", zap.String("engine", coordinator.Engine()))

	registry := handlers.NewSessionRegistry(store)
	middleware := handlers.NewMiddleware(cfg.SessionSecret, registry, zl)
	practiceHandler := handlers.NewPracticeHandler(registry, words, cfg.SessionSecret, cfg.SessionTokenTTL, zl)
	ttsHandler := handlers.NewTTSHandler(coordinator, zl)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/session", practiceHandler.CreateSession)
	mux.HandleFunc("POST /api/session/words", middleware.RequireSession(practiceHandler.SetWords))
	mux.HandleFunc("POST /api/session/next", middleware.RequireSession(practiceHandler.NextWord))
	mux.HandleFunc("POST /api/session/input", middleware.RequireSession(practiceHandler.SetInput))
	mux.HandleFunc("POST /api/session/answer", middleware.RequireSession(practiceHandler.CheckAnswer))
	mux.HandleFunc("POST /api/session/hint", middleware.RequireSession(practiceHandler.ToggleHint))
	mux.HandleFunc("POST /api/session/filter", middleware.RequireSession(practiceHandler.SetFilter))
	mux.HandleFunc("POST /api/session/reset", middleware.RequireSession(practiceHandler.ResetSession))
	mux.HandleFunc("GET /api/session/stats", middleware.RequireSession(practiceHandler.GetStats))
	mux.HandleFunc("GET /api/session/history", middleware.RequireSession(practiceHandler.GetHistory))

	mux.HandleFunc("POST /api/tts/speak", middleware.RequireSession(ttsHandler.Speak))
	mux.HandleFunc("GET /api/tts/voices", middleware.RequireSession(ttsHandler.Voices))

	handler := handlers.Logging(zl, mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("Server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Server shutting down")
	coordinator.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zl.Error("Shutdown error", zap.Error(err))
	}
}
