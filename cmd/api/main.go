// Package main is the entry point for the airport taxi booking API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/airport-taxi/backend/internal/catalog"
	"github.com/pkordes/airport-taxi/backend/internal/config"
	"github.com/pkordes/airport-taxi/backend/internal/flow"
	"github.com/pkordes/airport-taxi/backend/internal/handler"
	"github.com/pkordes/airport-taxi/backend/internal/middleware"
	"github.com/pkordes/airport-taxi/backend/internal/payment"
	"github.com/pkordes/airport-taxi/backend/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Cancelled on shutdown; stops background work such as the session sweeper.
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// --- Session storage --------------------------------------------------
	sessions, err := openSessions(bgCtx, cfg, logger)
	if err != nil {
		slog.Error("failed to open session backend", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer sessions.close()
	slog.Info("session backend ready", "backend", cfg.SessionBackend)

	// --- Events -----------------------------------------------------------
	publisher, closePublisher, err := openPublisher(cfg)
	if err != nil {
		slog.Error("failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	// --- Booking flow -----------------------------------------------------
	cat := catalog.Default()
	processor := payment.NewProcessor(cfg.PaymentDelay,
		payment.WithDecide(payment.DeclineCardsEndingIn(cfg.PaymentDeclineSuffixes...)))
	bookings := service.NewBookingService(
		sessions.store,
		sessions.lock,
		flow.New(cat),
		processor,
		publisher,
		logger,
		service.BookingConfig{
			PaymentTimeout:       cfg.PaymentTimeout,
			ConfirmationRedirect: cfg.ConfirmationRedirect,
			PaidMarkTTL:          cfg.SessionTTL,
		},
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(bookings, cat, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	// A payment request may legitimately run for the whole payment timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.PaymentTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to the payment timeout to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PaymentTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	stopBackground()
	slog.Info("server stopped")
}
