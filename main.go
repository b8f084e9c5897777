package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/catalog"
	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/orders"
	"food-ordering-api/pubsub"
	"food-ordering-api/routes"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const serviceName = "food-ordering-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func newBroker(cfg *config.Config, log *slog.Logger) (pubsub.Broker, error) {
	if cfg.NATSURL == "" {
		log.Info("using in-memory broker", slog.Int("buffer", cfg.SubscriberBuffer))
		return pubsub.NewMemoryBroker(cfg.SubscriberBuffer), nil
	}
	b, err := pubsub.NewNATSBroker(cfg.NATSURL, cfg.SubscriberBuffer)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	log.Info("connected to nats", slog.String("url", cfg.NATSURL))
	return b, nil
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	log.Info("database ready", slog.String("path", cfg.DBPath))

	broker, err := newBroker(cfg, log)
	if err != nil {
		return err
	}

	cat := catalog.NewStore(db)
	svc := orders.NewService(cat, store.NewOrderStore(db), broker, log)
	identity := middleware.NewIdentity(cfg.JWTSecret, cfg.TokenTTL)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(log), routes.CORS())
	routes.SetupRoutes(r, handlers.New(db, cat, svc, identity, log), identity)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		// Closing the broker ends every open subscription stream, which
		// lets Shutdown drain them.
		if err := broker.Close(); err != nil {
			log.Warn("close broker", logger.Err(err))
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
