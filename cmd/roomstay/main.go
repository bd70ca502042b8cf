package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/roomstay/internal/adapter/fsm"
	handler "github.com/neomorfeo/roomstay/internal/adapter/http"
	"github.com/neomorfeo/roomstay/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/roomstay/internal/adapter/river"
	"github.com/neomorfeo/roomstay/internal/adapter/sqlite"
	"github.com/neomorfeo/roomstay/internal/adapter/stripe"
	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "roomstay.db")
	currency := envOrDefault("CURRENCY", "eur")
	stripeKey := envOrDefault("STRIPE_SECRET_KEY", "")

	// --- Telemetry ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return err
	}

	queue, err := riveradapter.Setup(ctx, db, &logNotifier{}, &logEmailSender{})
	if err != nil {
		return err
	}
	if err := queue.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.Stop(stopCtx); err != nil {
			slog.Error("queue stop", "error", err)
		}
	}()

	var gateway domain.PaymentGateway = stripe.New(stripeKey)
	gateway = otel.NewTracedGateway(gateway)

	var dispatcher domain.Dispatcher = riveradapter.NewPublisher(queue)
	dispatcher = otel.NewTracedDispatcher(dispatcher)

	// --- Application ---
	bookingFSM := fsm.New(domain.BookingTransitions)
	tenantFSM := fsm.New(domain.TenantTransitions)

	bookings := app.NewBookingService(store, gateway, dispatcher, bookingFSM, tenantFSM, currency)
	tenants := app.NewTenantService(store, dispatcher, tenantFSM)
	listings := app.NewListingService(store)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("roomstay", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("roomstay", "0.1.0"))
	handler.Register(api, bookings, tenants, listings)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("roomstay listening", "port", port)
		slog.Info("API docs", "url", "http://localhost:"+port+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-done
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}

	slog.Info("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// logNotifier is the delivery backend until a real notification inbox
// exists. Jobs still flow through the queue so delivery is durable.
type logNotifier struct{}

func (logNotifier) Send(ctx context.Context, n domain.Notification) error {
	slog.InfoContext(ctx, "notification",
		"recipient_id", n.RecipientID,
		"type", n.Type,
		"title", n.Title,
	)
	return nil
}

// logEmailSender is the delivery backend until an email provider is
// wired up.
type logEmailSender struct{}

func (logEmailSender) Send(ctx context.Context, e domain.Email) error {
	slog.InfoContext(ctx, "email",
		"to", e.To,
		"template", e.Template,
		"subject", e.Subject,
	)
	return nil
}
