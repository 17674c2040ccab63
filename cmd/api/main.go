package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"slawn/internal/adapter/api"
	"slawn/internal/adapter/api/handler"
	apimiddleware "slawn/internal/adapter/api/middleware"
	"slawn/internal/adapter/api/router"
	"slawn/internal/adapter/repository"
	"slawn/internal/domain/service"
	"slawn/internal/infrastructure/cache"
	"slawn/internal/infrastructure/firebase"
	"slawn/internal/infrastructure/metrics"
	"slawn/internal/infrastructure/ratelimit"
	"slawn/internal/infrastructure/storage"
	"slawn/internal/infrastructure/websocket"
	"slawn/internal/usecase"
	"slawn/pkg/config"
	"slawn/pkg/logger"
)

const authorCacheTTL = 6 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []option.ClientOption
	switch {
	case cfg.FirebaseServiceAccountJSON != "":
		logger.Info("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)))
	case cfg.FirebaseServiceAccountPath != "":
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
			logger.Fatal("Service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseServiceAccountPath))
	default:
		logger.Info("Using application default credentials")
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		logger.Fatal("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		logger.Fatal("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	appMetrics, shutdownMetrics, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize metrics: %v", err)
	}

	checks := map[string]handler.HealthCheck{
		"firestore": func(ctx context.Context) error {
			_, err := firestoreClient.Collection("items").Limit(1).Documents(ctx).Next()
			if err == iterator.Done {
				return nil
			}
			return err
		},
	}

	var authors usecase.AuthorCache = cache.NewMemoryAuthorCache()
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		authors = cache.NewRedisAuthorCache(redisClient, authorCacheTTL)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		logger.Info("Author cache backed by Redis")
	}

	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	transactionRepo := repository.NewFirestoreTransactionRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	characterRepo := repository.NewFirestoreCharacterRepository(firestoreClient)

	paymentService := service.NewPaystackPaymentService(
		cfg.PaystackPublicKey,
		cfg.PaystackSecretKey,
		cfg.PaymentCurrency,
		cfg.PaystackBaseURL,
	)

	rateLimiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionSendMessage: {PerMinute: cfg.MessageRateLimit, Burst: cfg.MessageRateLimit},
		ratelimit.ActionRequest:     {PerMinute: 120, Burst: 30},
	})
	rateLimiter.StartCleanupRoutine(ctx.Done())

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	itemUseCase := usecase.NewItemUseCase(itemRepo, characterRepo, storageClient, authors)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, itemRepo, transactionRepo, paymentService, appMetrics, cfg.PaymentCurrency)
	chatUseCase := usecase.NewChatUseCase(chatRepo, characterRepo, rateLimiter, appMetrics)

	handler.Setup(checks, itemUseCase, orderUseCase, chatUseCase, wsManager)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.L().Info()
			if v.Error != nil {
				event = logger.L().Warn().Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware()

	router.Setup(e, authMiddleware, adminMiddleware, rateLimiter)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		logger.Error("Metrics shutdown failed: %v", err)
	}
}
