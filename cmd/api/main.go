package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/seyram/expenseshare/internal/config"
	"github.com/seyram/expenseshare/internal/handler"
	"github.com/seyram/expenseshare/internal/logging"
	"github.com/seyram/expenseshare/internal/middleware"
	"github.com/seyram/expenseshare/internal/repository"
	"github.com/seyram/expenseshare/internal/service"
	"github.com/seyram/expenseshare/internal/service/ledger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("expenseshare-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	expenses := repository.NewExpenseRepository(db)
	settlements := repository.NewSettlementRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	balances := repository.NewBalanceRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	groupSvc := service.NewGroupService(groups, users, db)
	ledgerSvc := ledger.NewService(expenses, settlements, ledgerRepo, balances, groups, db)

	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.JWTExpiry())
	userHandler := handler.NewUserHandler(users)
	groupHandler := handler.NewGroupHandler(groupSvc)
	expenseHandler := handler.NewExpenseHandler(ledgerSvc)
	settlementHandler := handler.NewSettlementHandler(ledgerSvc)
	balanceHandler := handler.NewBalanceHandler(ledgerSvc)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)

	r.Get("/health", healthHandler.Liveness)
	r.Get("/ready", healthHandler.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/me", userHandler.Me)

			r.Post("/groups", groupHandler.Create)
			r.Get("/groups", groupHandler.List)
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Get("/members", groupHandler.ListMembers)
				r.Post("/members", groupHandler.AddMember)
				r.Delete("/members/{userID}", groupHandler.RemoveMember)

				r.With(middleware.Idempotency(idempotency)).Post("/expenses", expenseHandler.Create)
				r.Get("/expenses", expenseHandler.List)

				r.With(middleware.Idempotency(idempotency)).Post("/settlements", settlementHandler.Create)
				r.Get("/settlements", settlementHandler.List)

				r.Get("/balances", balanceHandler.List)
				r.Post("/balances/reconcile", balanceHandler.ReconcileGroup)
				r.Get("/balances/{userID}/recomputed", balanceHandler.Recomputed)
				r.Post("/balances/{userID}/reconcile", balanceHandler.Reconcile)
				r.Get("/balances/{userID}/entries", balanceHandler.ListEntries)
			})

			r.Get("/expenses/{expenseID}", expenseHandler.Get)
			r.Get("/settlements/{settlementID}", settlementHandler.Get)
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
