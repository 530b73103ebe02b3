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

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"artisanmart/internal/adapter/api"
	"artisanmart/internal/adapter/api/handler"
	apimiddleware "artisanmart/internal/adapter/api/middleware"
	"artisanmart/internal/adapter/api/router"
	"artisanmart/internal/adapter/repository"
	"artisanmart/internal/adapter/repository/memory"
	domainrepo "artisanmart/internal/domain/repository"
	"artisanmart/internal/domain/service"
	"artisanmart/internal/infrastructure/cache"
	"artisanmart/internal/infrastructure/cashfree"
	"artisanmart/internal/infrastructure/events"
	"artisanmart/internal/infrastructure/firebase"
	"artisanmart/internal/infrastructure/llm"
	"artisanmart/internal/infrastructure/mail"
	"artisanmart/internal/infrastructure/qrcode"
	"artisanmart/internal/infrastructure/ratelimit"
	"artisanmart/internal/infrastructure/storage"
	"artisanmart/internal/infrastructure/websocket"
	"artisanmart/internal/usecase"
	"artisanmart/pkg/config"
	"artisanmart/pkg/logger"
	"artisanmart/pkg/money"
)

type repositories struct {
	users     domainrepo.UserRepository
	shopCards domainrepo.ShopCardRepository
	auctions  domainrepo.AuctionRepository
	carts     domainrepo.CartRepository
	orders    domainrepo.OrderRepository
	resales   domainrepo.ResaleRepository
	stories   domainrepo.StoryRepository
}

func firestoreRepositories(client *firestore.Client) repositories {
	return repositories{
		users:     repository.NewFirestoreUserRepository(client),
		shopCards: repository.NewFirestoreShopCardRepository(client),
		auctions:  repository.NewFirestoreAuctionRepository(client),
		carts:     repository.NewFirestoreCartRepository(client),
		orders:    repository.NewFirestoreOrderRepository(client),
		resales:   repository.NewFirestoreResaleRepository(client),
		stories:   repository.NewFirestoreStoryRepository(client),
	}
}

func memoryRepositories() repositories {
	m := memory.New()
	return repositories{
		users:     m.Users,
		shopCards: m.ShopCards,
		auctions:  m.Auctions,
		carts:     m.Carts,
		orders:    m.Orders,
		resales:   m.Resales,
		stories:   m.Stories,
	}
}

func credentials(cfg *config.Config) option.ClientOption {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))
	}

	path := cfg.FirebaseServiceAccountPath
	if path == "" {
		path = "./firebase-service-account.json"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("Service account file does not exist: %s", path)
	}
	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := credentials(cfg)

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}
	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)

	probes := map[string]handler.Probe{}

	var repos repositories
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = memoryRepositories()
	default:
		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		repos = firestoreRepositories(firestoreClient)
		probes["firestore"] = func(ctx context.Context) error {
			_, err := firestoreClient.Collection("users").Doc("_health").Get(ctx)
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	var gateway service.PaymentGatewayService
	if cfg.Payment.AppID != "" && cfg.Payment.SecretKey != "" {
		gateway = cashfree.NewPaymentService(cfg.Payment.AppID, cfg.Payment.SecretKey, cfg.Payment.Environment == "production")
	} else {
		logger.Warn("CASHFREE_APP_ID not set, using the simplified payment gateway")
		gateway = service.NewSimplifiedPaymentService(cfg.Payment.SecretKey)
	}

	var analyticsCache usecase.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis unavailable, analytics results will not be cached: %v", err)
		} else {
			defer redisCache.Close()
			analyticsCache = redisCache
			probes["redis"] = redisCache.Ping
		}
	}

	var publisher usecase.EventPublisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("Kafka unavailable, domain events are dropped: %v", err)
		} else {
			defer kafka.Close()
			publisher = kafka
		}
	}

	var mailer usecase.Mailer = mail.Nop{}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Server, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.FromAddr, cfg.SMTP.FromName)
	}

	var generator service.TextGenerator
	if cfg.AnalyticsAI && cfg.LLMToken != "" {
		g, err := llm.NewOpenAIGenerator(cfg.LLMToken, cfg.LLMModel)
		if err != nil {
			logger.Warn("LLM client unavailable, analytics use fallback data: %v", err)
		} else {
			generator = g
		}
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	userUseCase := usecase.NewUserUseCase(repos.users)
	auctionUseCase := usecase.NewAuctionUseCase(repos.auctions, repos.users, wsManager, publisher)
	paymentUseCase := usecase.NewPaymentUseCase(
		repos.orders,
		repos.users,
		repos.shopCards,
		repos.resales,
		gateway,
		publisher,
		mailer,
		qrcode.NewEncoder(),
		usecase.PaymentSettings{
			PlatformFeePercent: cfg.Payment.PlatformFeePercent,
			AdminBonus:         cfg.Payment.AdminBonus,
			ReturnURL:          cfg.Payment.ReturnURL,
			OrderExpiry:        cfg.Payment.OrderExpiry,
		},
	)

	wsManager.SetBidHandler(func(ctx context.Context, auctionID, userID, userName string, amount money.Amount) error {
		_, err := auctionUseCase.PlaceBid(ctx, auctionID, userID, userName, amount)
		return err
	})

	handler.Setup(handler.UseCases{
		Auth:         usecase.NewAuthUseCase(repos.users, firebaseAuthClient),
		User:         userUseCase,
		ShopCard:     usecase.NewShopCardUseCase(repos.shopCards, repos.users),
		Auction:      auctionUseCase,
		Cart:         usecase.NewCartUseCase(repos.carts, repos.shopCards, paymentUseCase),
		Payment:      paymentUseCase,
		Order:        usecase.NewOrderUseCase(repos.orders, repos.users),
		Subscription: usecase.NewSubscriptionUseCase(paymentUseCase, userUseCase),
		Analytics:    usecase.NewAnalyticsUseCase(repos.orders, repos.shopCards, generator, analyticsCache, cfg.AnalyticsCacheTTL),
		Upload:       usecase.NewUploadUseCase(storageClient),
		Resale:       usecase.NewResaleUseCase(repos.resales, repos.users),
		Story:        usecase.NewStoryUseCase(repos.stories, repos.users),
	})
	handler.SetupHealthHandler(cfg.StorageDriver, probes)

	go paymentUseCase.StartExpiryJob(ctx, time.Minute)

	authLimiter := ratelimit.New(20, time.Minute)
	apiLimiter := ratelimit.New(300, time.Minute)
	authLimiter.StartCleanupRoutine(ctx)
	apiLimiter.StartCleanupRoutine(ctx)

	e := echo.New()
	e.HideBanner = true

	e.Use(apimiddleware.RequestLogger(logger.Slog()))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(repos.users)

	router.Setup(e, router.Dependencies{
		Auth:        authMiddleware,
		Admin:       adminMiddleware,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
		WebSocket:   handler.NewWebSocketHandler(wsManager, userUseCase, cfg.CORSOrigins),
		Environment: cfg.Environment,
	})

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
