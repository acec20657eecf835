package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	posv1 "github.com/fekuna/omnipos-billing-service/api/posv1"
	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/migrations"
	"github.com/fekuna/omnipos-billing-service/pkg/broker"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-billing-service/pkg/i18n"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/middleware"
	"github.com/fekuna/omnipos-billing-service/pkg/search"

	"github.com/fekuna/omnipos-billing-service/internal/auth"
	authdto "github.com/fekuna/omnipos-billing-service/internal/auth/dto"
	authH "github.com/fekuna/omnipos-billing-service/internal/auth/handler"
	authRepoPkg "github.com/fekuna/omnipos-billing-service/internal/auth/repository"
	authUCPkg "github.com/fekuna/omnipos-billing-service/internal/auth/usecase"

	billH "github.com/fekuna/omnipos-billing-service/internal/bill/handler"
	billPubPkg "github.com/fekuna/omnipos-billing-service/internal/bill/publisher"
	billRepoPkg "github.com/fekuna/omnipos-billing-service/internal/bill/repository"
	billUCPkg "github.com/fekuna/omnipos-billing-service/internal/bill/usecase"

	cartH "github.com/fekuna/omnipos-billing-service/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-billing-service/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-billing-service/internal/cart/usecase"

	invH "github.com/fekuna/omnipos-billing-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-billing-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-billing-service/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-billing-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-billing-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-billing-service/internal/product/usecase"

	"github.com/fekuna/omnipos-billing-service/internal/receipt"
	receiptListenerPkg "github.com/fekuna/omnipos-billing-service/internal/receipt/listener"
	receiptSenderPkg "github.com/fekuna/omnipos-billing-service/internal/receipt/sender"
	receiptUCPkg "github.com/fekuna/omnipos-billing-service/internal/receipt/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 2.5 Initialize i18n
	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}
	for _, path := range cfg.I18n.LocaleFiles {
		if err := translator.Load(path); err != nil {
			appLogger.Warn("Failed to load locale file", zap.String("path", path), zap.Error(err))
		}
	}

	// 3. Connect to Database
	pgConfig := &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
	db, err := postgres.NewPostgres(pgConfig)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(pgConfig, migrations.FS); err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	// 4. Initialize Repositories
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	billRepo := billRepoPkg.NewPGRepository(db)
	authRepo := authRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	sessionStore := authRepoPkg.NewRedisSessionStore(redisClient)
	cartStore := cartRepoPkg.NewRedisCartStore(redisClient, cfg.Billing.CartTTL)

	// 5.5 Initialize Kafka
	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.BillTopic,
	})
	defer kafkaProducer.Close()
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.BillTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Kafka configured", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.BillTopic))

	// 5.8 Initialize Elasticsearch; search falls back to the database without it
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, product search uses the database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	taxRate := cfg.Billing.TaxRateDecimal()
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	authUC := authUCPkg.NewAuthUseCase(authRepo, sessionStore, tokens, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, prodUC, redisClient, appLogger)
	billUC := billUCPkg.NewBillUseCase(billRepo, invUC, billPubPkg.NewKafkaPublisher(kafkaProducer), taxRate, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartStore, prodUC, billUC, taxRate, appLogger)

	location, err := time.LoadLocation(cfg.Shop.Timezone)
	if err != nil {
		appLogger.Warn("Unknown shop timezone, using local time", zap.String("timezone", cfg.Shop.Timezone), zap.Error(err))
		location = time.Local
	}
	renderer := receipt.NewRenderer(translator, receipt.ShopInfo{
		Name:     cfg.Shop.Name,
		Address:  cfg.Shop.Address,
		Contact:  cfg.Shop.Contact,
		GSTIN:    cfg.Shop.GSTIN,
		Currency: cfg.Shop.Currency,
		GSTLabel: cfg.Shop.GSTLabel,
	}, location)

	var sender receipt.Sender
	if cfg.WhatsApp.Enabled {
		sender = receiptSenderPkg.NewWhatsAppSender(receiptSenderPkg.WhatsAppConfig{
			APIURL:        cfg.WhatsApp.APIURL,
			Token:         cfg.WhatsApp.Token,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			Timeout:       cfg.WhatsApp.Timeout,
		})
	}
	receiptUC := receiptUCPkg.NewReceiptUseCase(billUC, renderer, sender, cfg.I18n.DefaultLanguage, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Auth.BootstrapEmail != "" {
		op, err := authUC.EnsureOperator(ctx, &authdto.CreateOperatorInput{
			Email:    cfg.Auth.BootstrapEmail,
			Name:     cfg.Auth.BootstrapName,
			Password: cfg.Auth.BootstrapPassword,
			Role:     model.RoleAdmin,
		})
		if err != nil {
			appLogger.Fatal("Could not bootstrap admin operator", zap.Error(err))
		}
		appLogger.Info("Admin operator ready", zap.String("email", op.Email))
	}

	// 6.5 Initialize Listeners
	if sender != nil {
		receiptListener := receiptListenerPkg.NewReceiptListener(kafkaConsumer, receiptUC, appLogger)
		go receiptListener.Start(ctx)
	}

	// 7. Initialize Handlers
	authHandler := authH.NewAuthHandler(authUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	cartHandler := cartH.NewCartHandler(cartUC, appLogger)
	billHandler := billH.NewBillHandler(billUC, receiptUC, appLogger)

	// 8. Start gRPC Server
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Recovery(appLogger),
			middleware.Logging(appLogger),
			middleware.Metrics(),
			auth.UnaryServerInterceptor(authUC, auth.DefaultPolicy()),
		),
	)

	registerServices(grpcServer, services{
		auth:      authHandler,
		product:   prodHandler,
		inventory: invHandler,
		cart:      cartHandler,
		billing:   billHandler,
	})

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.Server.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 9. Start HTTP side server for probes and metrics
	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler: newHTTPRouter(map[string]healthCheck{
			"postgres": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Client.Ping(ctx).Err() },
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("HTTP server shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

type services struct {
	auth      posv1.AuthServiceServer
	product   posv1.ProductServiceServer
	inventory posv1.InventoryServiceServer
	cart      posv1.CartServiceServer
	billing   posv1.BillingServiceServer
}

// registerServices exposes only the POS services. Server reflection is not registered
// because the descriptors are built in code and carry no proto file.
func registerServices(s grpc.ServiceRegistrar, svc services) {
	posv1.RegisterAuthServiceServer(s, svc.auth)
	posv1.RegisterProductServiceServer(s, svc.product)
	posv1.RegisterInventoryServiceServer(s, svc.inventory)
	posv1.RegisterCartServiceServer(s, svc.cart)
	posv1.RegisterBillingServiceServer(s, svc.billing)
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
