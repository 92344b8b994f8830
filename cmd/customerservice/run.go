package customerservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	app "github.com/quickeats/platform/internal/app/customerservice"
	"github.com/quickeats/platform/internal/shared/config"
	"github.com/quickeats/platform/internal/shared/health"
	"github.com/quickeats/platform/internal/shared/logger"
	pg "github.com/quickeats/platform/internal/shared/postgres"
	"github.com/quickeats/platform/internal/shared/rabbitmq"
)

// Run wires the customer service and blocks until ctx is cancelled. It
// serves the customer HTTP API and consumes RestaurantCreated events.
func Run(ctx context.Context, port, workers int) error {
	log, err := logger.New("customer-service")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Errorw("failed to load configuration", "error", err)
		return err
	}
	if port == 0 {
		port = cfg.HTTP.CustomerPort
	}

	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to connect to postgres", "error", err)
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.Connect(ctx, cfg.AMQPURL(), rabbitmq.CustomerTopology(), log)
	if err != nil {
		log.Errorw("failed to connect to rabbitmq", "error", err)
		return err
	}
	defer rmq.Close()

	uow := pg.NewUnitOfWork(pool)
	repo := pg.NewCustomersRepo()
	svc := app.New(uow, repo, log)
	listener := app.NewListener(uow, repo, log)

	dispatcher := rabbitmq.NewDispatcher(rmq, rabbitmq.QueueCustomerRestaurant, workers, listener.HandleRestaurantCreated, log)
	go dispatcher.Run(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)
	router.Get("/health", health.Handler(
		health.Checker{Name: "postgres", Check: pool.Ping},
		health.Checker{Name: "rabbitmq", Check: func(context.Context) error { return rmq.Ping(2 * time.Second) }},
	))
	app.NewHandler(svc, log).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Infow("customer service started", "port", port, "workers", workers)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		log.Infow("customer service stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
