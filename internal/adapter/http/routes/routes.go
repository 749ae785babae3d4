package routes

import (
	"net/http"

	_ "servicehub/docs" // swag-generated documentation
	"servicehub/internal/adapter/http/handlers"
	"servicehub/internal/adapter/http/middleware"
	"servicehub/internal/adapter/persistence/repository"
	"servicehub/internal/config"
	"servicehub/internal/domain/entities"
	"servicehub/internal/infrastructure/database"
	"servicehub/internal/infrastructure/notify"
	"servicehub/internal/infrastructure/payments"
	"servicehub/internal/infrastructure/realtime"
	"servicehub/internal/infrastructure/scheduler"
	"servicehub/internal/usecase"
	"servicehub/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Run wires the application together and starts the server.
func Run() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ddb := database.ConnectDynamoDB()
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	bookingRepo := repository.NewBookingDynamoRepository(ddb)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb)
	providerRepo := repository.NewProviderDynamoRepository(ddb)

	notifier := notify.NewDispatcher(rdb, logger)
	hub := realtime.NewHub(rdb, logger)

	gateways := buildGateways(cfg, logger)

	bookingUseCase := usecase.NewBookingUseCase(bookingRepo, paymentRepo, notifier, hub, logger)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, bookingRepo, providerRepo, gateways, notifier, hub, logger)

	sweeper := scheduler.NewAutoConfirmScheduler(
		bookingRepo,
		bookingUseCase,
		logger,
		cfg.AutoConfirmInterval,
		cfg.AutoConfirmBatchLimit,
		cfg.AutoConfirmConcurrency,
	)
	sweeper.Start()
	defer sweeper.Stop()

	bookingHandler := handlers.NewBookingHandler(bookingUseCase, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, logger)
	walletHandler := handlers.NewWalletHandler(providerRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")

	// Gateway notifications carry no user credentials.
	v1.POST("/payments/webhook", paymentHandler.Webhook)

	authed := v1.Group("", middleware.Auth(cfg.JWTSecret))
	addBookingRoutes(authed, bookingHandler, paymentHandler)
	addPaymentRoutes(authed, paymentHandler, walletHandler)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildGateways(cfg config.Config, logger *zap.Logger) map[entities.PaymentMethod]interfaces.IPaymentGateway {
	gateways := map[entities.PaymentMethod]interfaces.IPaymentGateway{
		entities.PaymentMethodMobileWallet: payments.NewMobileWalletGateway(cfg.WalletGatewayLatency, cfg.WalletGatewayFailRate, logger),
		entities.PaymentMethodPeer:         payments.NewPeerGateway(logger),
	}

	card, err := payments.NewCardGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock, logger)
	if err != nil {
		// Card payments are rejected as unsupported until the token is set.
		logger.Warn("card gateway not configured", zap.Error(err))
	} else {
		gateways[entities.PaymentMethodCard] = card
	}
	return gateways
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
