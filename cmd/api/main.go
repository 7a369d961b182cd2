package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"ecomdrop-shopify-bridge/internal/application"
	"ecomdrop-shopify-bridge/internal/application/webhook_handlers"
	"ecomdrop-shopify-bridge/internal/domain"
	"ecomdrop-shopify-bridge/internal/infrastructure/ecomdrop"
	"ecomdrop-shopify-bridge/internal/infrastructure/metrics"
	"ecomdrop-shopify-bridge/internal/infrastructure/pubsub"
	"ecomdrop-shopify-bridge/internal/infrastructure/repository"
	shopifyinfra "ecomdrop-shopify-bridge/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// dispatchTimeout bounds background processing of a single webhook. By the
// time a handler runs, Shopify has already been acknowledged.
const dispatchTimeout = 30 * time.Second

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Get configuration from environment
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	appURL := os.Getenv("APP_URL")

	webhookSecret := os.Getenv("SHOPIFY_API_SECRET")
	if webhookSecret == "" {
		logger.Fatal().Msg("SHOPIFY_API_SECRET environment variable is required")
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(os.Getenv("MONGODB_DATABASE"))

	// Connect to Redis
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	// Initialize repositories
	configRepo := repository.NewMongoConfigRepository(db)
	sessionRepo := repository.NewMongoSessionRepository(db)
	associationRepo := repository.NewMongoAssociationRepository(db)
	aiConfigRepo := repository.NewMongoAIConfigRepository(db)

	// Initialize outbound clients
	ecomdropClient := ecomdrop.NewClient(os.Getenv("ECOMDROP_API_BASE"), logger)
	flowsCache := ecomdrop.NewFlowsCache(rdb)
	orderClient := shopifyinfra.NewAdminClient(logger)
	webhookVerifier := shopifyinfra.NewWebhookVerifier(webhookSecret)
	shopClient := shopifyinfra.NewClient(os.Getenv("SHOPIFY_API_KEY"), webhookSecret)
	tokenManager := shopifyinfra.NewTokenManager(shopClient, logger)

	// Initialize application services
	orderService := application.NewOrderService(orderClient, logger)
	flowService := application.NewFlowService(ecomdropClient, flowsCache, logger)
	configService := application.NewConfigService(configRepo, ecomdropClient, flowService, logger)
	callbackService := application.NewCallbackService(configRepo, sessionRepo, orderService, logger)

	// Initialize webhook dispatcher and register handlers
	callbackURL := ""
	if appURL != "" {
		callbackURL = appURL + "/api/ecomdrop/callback"
	}
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderCreatedHandler(
		configRepo, sessionRepo, flowService, orderService, callbackURL, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewDraftOrderCreatedHandler(
		configRepo, flowService, logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(
		configRepo, sessionRepo, associationRepo, aiConfigRepo, logger))

	// Webhook bus: the HTTP entry point acknowledges immediately, the worker
	// dispatches consumed events to the handlers.
	webhookBus := pubsub.NewWebhookPubSub(logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	subscription := webhookBus.Subscribe(workerCtx, &pubsub.WebhookEventFilter{
		Topics: []string{
			domain.TopicOrdersCreate,
			domain.TopicDraftOrdersCreate,
			domain.TopicAppUninstalled,
		},
	})
	go runDispatchWorker(workerCtx, subscription, webhookDispatcher, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Webhook endpoint: all subscribed topics arrive here, routed by the
	// X-Shopify-Topic header.
	r.Post("/webhooks/shopify", webhookHandler(webhookVerifier, webhookBus, logger))

	// Ecomdrop completion callback. Registered without a method restriction
	// so the handler can answer wrong methods itself.
	r.HandleFunc("/api/ecomdrop/callback", callbackHandler(callbackService, logger))

	// Admin configuration API
	r.Route("/api/config", func(r chi.Router) {
		r.Get("/", getConfigHandler(configService, logger))
		r.Get("/status", integrationStatusHandler(configService, sessionRepo, tokenManager, logger))
		r.Post("/apikey", saveAPIKeyHandler(configService, logger))
		r.Post("/flows", saveFlowsHandler(configService, logger))
		r.Post("/flows/sync", syncFlowsHandler(configService, logger))
		r.Post("/dropi", saveDropiHandler(configService, logger))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// runDispatchWorker consumes verified webhook events from the bus and feeds
// them to the dispatcher. Handler errors are logged only: the delivery was
// acknowledged before it ever reached this point.
func runDispatchWorker(
	ctx context.Context,
	subscription *pubsub.WebhookEventChannel,
	dispatcher *application.WebhookDispatcher,
	logger zerolog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-subscription.Events:
			if !ok {
				return
			}
			dispatchCtx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			err := dispatcher.Dispatch(dispatchCtx, event)
			cancel()
			if err != nil {
				logger.Error().Err(err).
					Str("topic", event.Topic).
					Str("shop", event.Shop).
					Msg("Webhook processing failed")
				metrics.WebhooksDispatched.WithLabelValues(event.Topic, "error").Inc()
				continue
			}
			metrics.WebhooksDispatched.WithLabelValues(event.Topic, "ok").Inc()
		}
	}
}
