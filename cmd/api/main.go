package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/oseni-a/paystack-marketplace/internal/cache"
	"github.com/oseni-a/paystack-marketplace/internal/config"
	"github.com/oseni-a/paystack-marketplace/internal/handler"
	"github.com/oseni-a/paystack-marketplace/internal/ledger"
	"github.com/oseni-a/paystack-marketplace/internal/logging"
	"github.com/oseni-a/paystack-marketplace/internal/middleware"
	"github.com/oseni-a/paystack-marketplace/internal/paystack"
	"github.com/oseni-a/paystack-marketplace/internal/repository"
	"github.com/oseni-a/paystack-marketplace/internal/service"
	"github.com/oseni-a/paystack-marketplace/internal/webhook"
)

func main() {
	// Local development convenience; in deployed environments the variables
	// arrive through the process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("marketplace-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var readCache *cache.Cache
	if cfg.RedisAddr != "" {
		readCache = cache.New(cfg.RedisAddr)
		defer readCache.Close()
	}

	client := paystack.New(paystack.Config{
		SecretKey: cfg.PaystackSecretKey,
		BaseURL:   cfg.PaystackBaseURL,
	})

	transactions := repository.NewTransactionRepository(db)
	transfers := repository.NewTransferRepository(db)
	customers := repository.NewCustomerRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)
	invoices := repository.NewInvoiceRepository(db)

	eventLedger := ledger.New(db, cfg.WebhookStaleAfter())

	dispatcher := webhook.NewDispatcher(cfg.WebhookHandlerTimeout())
	err = service.RegisterHandlers(
		dispatcher,
		service.NewChargeHandler(transactions, client),
		service.NewTransferHandler(transfers),
		service.NewCustomerHandler(customers),
		service.NewSubscriptionHandler(subscriptions),
		service.NewInvoiceHandler(invoices),
	)
	if err != nil {
		slog.Error("failed to register webhook handlers", "error", err)
		os.Exit(1)
	}

	validate := validator.New()

	healthHandler := handler.NewHealthHandler(db, readCache)
	webhookHandler := handler.NewWebhookHandler(eventLedger, dispatcher, []byte(cfg.PaystackSecretKey))
	bankHandler := handler.NewBankHandler(client, readCache)
	balanceHandler := handler.NewBalanceHandler(client, readCache)
	subaccountHandler := handler.NewSubaccountHandler(client, validate)
	transactionHandler := handler.NewTransactionHandler(client, transactions, validate)
	transferHandler := handler.NewTransferHandler(client, transfers, validate)

	authed := middleware.Auth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	// Paystack authenticates with the signature header, not a bearer token.
	mux.HandleFunc("POST /webhooks/paystack", webhookHandler.ReceivePaystackWebhook)

	mux.Handle("GET /api/v1/balance", authed(http.HandlerFunc(balanceHandler.Fetch)))
	mux.Handle("GET /api/v1/banks", authed(http.HandlerFunc(bankHandler.List)))
	mux.Handle("GET /api/v1/banks/resolve", authed(http.HandlerFunc(bankHandler.ResolveAccount)))
	mux.Handle("POST /api/v1/subaccounts", authed(http.HandlerFunc(subaccountHandler.Create)))
	mux.Handle("GET /api/v1/transactions", authed(http.HandlerFunc(transactionHandler.List)))
	mux.Handle("POST /api/v1/transactions/initialize", authed(http.HandlerFunc(transactionHandler.Initialize)))
	mux.Handle("POST /api/v1/transfers", authed(http.HandlerFunc(transferHandler.Initiate)))

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
