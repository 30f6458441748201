package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	healthconnect "github.com/set-night/healthconnect"
	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/handler"
	"github.com/set-night/healthconnect/internal/middleware"
	"github.com/set-night/healthconnect/internal/repository"
	"github.com/set-night/healthconnect/internal/repository/sqlc"
	"github.com/set-night/healthconnect/internal/service"
	"github.com/set-night/healthconnect/internal/telegram"
)

// kvStore is a key-value backend that can also drop expired entries.
type kvStore interface {
	service.KeyValue
	DeleteExpired(ctx context.Context) (int64, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(healthconnect.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize sqlc queries
	queries := sqlc.New(pool)

	// Key-value store for chat sessions and cached blobs
	var kv kvStore
	switch cfg.KVBackend {
	case config.KVRedis:
		rkv, err := repository.NewRedisKV(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rkv.Close()
		kv = rkv
	case config.KVMemory:
		kv = repository.NewMemoryKV()
	default:
		kv = repository.NewPostgresKV(queries)
	}
	slog.Info("key-value store ready", "backend", cfg.KVBackend)

	// Initialize services
	client := backend.NewClient(cfg.BackendBaseURL, cfg.DoctorsBaseURL)
	transcripts := service.NewTranscripts(config.TranscriptIdleAge)

	userService := service.NewUserService(pool, queries, cfg)
	chatService := service.NewChatService(client, kv, transcripts, cfg)
	healthService := service.NewHealthService(client, chatService, kv)
	nutritionService := service.NewNutritionService(client, chatService)
	wellnessService := service.NewWellnessService(client)
	doctorService := service.NewDoctorService(client, kv)

	limiter := middleware.NewLimiter(config.RateLimitPerMinute, config.RateLimitBurst)

	// Logger pointer for use in closures set up before the bot exists
	var tgLogger *telegram.TelegramLogger

	chatService.OnSessionExpired(func(ctx context.Context, user *domain.User, mode domain.ChatMode) {
		tgLogger.LogSessionExpired(user, mode)
	})

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(ctx context.Context, recovered any) {
				tgLogger.LogError(fmt.Errorf("panic: %v", recovered), "update handler")
			}),
			middleware.Logging(),
			middleware.RateLimit(limiter),
			middleware.UserLoader(userService, cfg, func(ctx context.Context, user *domain.User) {
				tgLogger.LogRegistration(user)
			}),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:              b,
		Cfg:              cfg,
		UserService:      userService,
		ChatService:      chatService,
		HealthService:    healthService,
		NutritionService: nutritionService,
		WellnessService:  wellnessService,
		DoctorService:    doctorService,
		TgLogger:         tgLogger,
	})

	// Register all handlers
	h.Register()

	// Register default text handler for chat messages; it must come last
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.HandleText)

	// Drop idle transcripts
	go transcripts.Run(ctx, config.TranscriptSweepPeriod)

	// Start expired key and idle limiter cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.ExpiredKVCleanupPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := kv.DeleteExpired(context.Background())
				if err != nil {
					slog.Error("cleanup expired keys", "error", err)
				}
				slog.Debug("cleanup", "expired_keys", n, "limiters", limiter.Prune())
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
