package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/rookgm/tiffin/config"
	"github.com/rookgm/tiffin/internal/auth"
	handler "github.com/rookgm/tiffin/internal/handler/http"
	"github.com/rookgm/tiffin/internal/logger"
	"github.com/rookgm/tiffin/internal/middleware"
	"github.com/rookgm/tiffin/internal/repository"
	"github.com/rookgm/tiffin/internal/repository/postgres"
	"github.com/rookgm/tiffin/internal/service"
	"github.com/rookgm/tiffin/internal/worker"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	var token *auth.AuthToken
	if cfg.AuthTokenKey != "" {
		tokenKey, err := hex.DecodeString(cfg.AuthTokenKey)
		if err != nil {
			logger.Log.Fatal("Error extracting token key", zap.Error(err))
		}
		token = auth.NewAuthToken(tokenKey)
	}

	// tiffin token <operator> prints operator token and exits
	if flag.Arg(0) == "token" {
		if token == nil || flag.Arg(1) == "" {
			log.Fatal("usage: tiffin -k <hex key> token <operator>")
		}
		s, err := token.CreateToken(flag.Arg(1))
		if err != nil {
			log.Fatalf("Error creating token: %v", err)
		}
		fmt.Println(s)
		return
	}

	// create context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		orderRepo   service.OrderRepository
		billingRepo service.BillingRepository
	)

	if cfg.DatabaseDSN != "" {
		// initialize database
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Log.Fatal("Error initializing database", zap.Error(err))
		}
		defer db.Close()

		// migrate database
		if err := db.Migrate(); err != nil {
			logger.Log.Fatal("Error migrating database", zap.Error(err))
		}

		orderRepo = repository.NewOrderRepository(db)
		billingRepo = repository.NewBillingRepository(db)
	} else {
		logger.Log.Warn("Database DSN is empty, using memory store")
		memOrders := repository.NewMemoryOrderRepository()
		orderRepo = memOrders
		billingRepo = repository.NewMemoryBillingRepository(memOrders)
	}

	// dependency injection
	// attendance
	attendanceService := service.NewAttendanceService(orderRepo)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)

	// billing
	billingService := service.NewBillingService(orderRepo, billingRepo,
		service.WithConflictRetries(cfg.ConflictRetries),
		service.WithDefaultFinalizer(cfg.DefaultFinalizer),
	)
	billingHandler := handler.NewBillingHandler(billingService)

	// invoice
	invoiceService := service.NewInvoiceService(orderRepo, billingService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))
	if token != nil {
		router.Use(middleware.Auth(token))
	}

	router.Get("/api/attendance/daily", attendanceHandler.DailyCount())
	router.Get("/api/attendance/monthly", attendanceHandler.MonthlyList())

	router.Route("/api/billing", func(r chi.Router) {
		r.Get("/orders/{orderID}/{month}", billingHandler.GetOrderBilling())
		r.Post("/orders/{orderID}/{month}/finalize", billingHandler.FinalizeBilling())
		r.Get("/customers/{customerID}/{month}/status", billingHandler.GetCustomerStatus())
		r.Get("/customers/{customerID}/{month}/invoice", invoiceHandler.GetCustomerInvoice())
	})

	if cfg.RefreshInterval > 0 {
		refresher := worker.NewBillingRefresher(billingService, cfg.RefreshInterval)
		go refresher.Run(ctx)
	}

	srv := &http.Server{Addr: cfg.ServerAddr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Error shutting down server", zap.Error(err))
		}
	}()

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
