package dispatchservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"delivery-dispatch/internal/general/config"
	"delivery-dispatch/internal/general/jwt"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/notify"
	"delivery-dispatch/internal/general/observability"
	"delivery-dispatch/internal/general/postgres"
	"delivery-dispatch/internal/general/rabbitmq"
	"delivery-dispatch/internal/general/redisgeo"
	"delivery-dispatch/internal/general/websocket"
	"delivery-dispatch/internal/ports"
	dispatchhandler "delivery-dispatch/internal/software/dispatch/handler"
	dispatchsvc "delivery-dispatch/internal/software/dispatch/service"
	driverlochandler "delivery-dispatch/internal/software/driverloc/handler"
	driverlocsvc "delivery-dispatch/internal/software/driverloc/service"
	reviewhandler "delivery-dispatch/internal/software/review/handler"
	reviewsvc "delivery-dispatch/internal/software/review/service"
	wallethandler "delivery-dispatch/internal/software/wallet/handler"
	walletsvc "delivery-dispatch/internal/software/wallet/service"
)

// Run wires the dispatch service and blocks until ctx is cancelled.
func Run(ctx context.Context, configPath string, maxConcurrent int) error {
	// load a config from file
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// set up a new logger for the dispatch service
	log := logger.New("dispatch-service", cfg.Log.Level)
	defer log.Sync()

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("postgres connection failed", logger.Err(err))
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ; the service degrades to synchronous-only
	// operation when the broker is unreachable at startup
	var (
		pub      *rabbitmq.MQPublisher
		rmq      *rabbitmq.Client
		notifier ports.Notifier
	)
	rmq, err = rabbitmq.Connect(cfg, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, events and notifications disabled", logger.Err(err))
		notifier = notify.NewLogNotifier(log)
	} else {
		defer rmq.Close()
		pub = rabbitmq.NewMQPublisher(rmq)
		notifier = notify.NewMQNotifier(pub, log)
	}

	// set up the Redis geo index when configured
	var geoIndex ports.GeoIndex
	if cfg.Redis.Enabled {
		idx, err := redisgeo.New(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Warn("redis unavailable, proximity queries fall back to SQL", logger.Err(err))
		} else {
			defer idx.Close()
			geoIndex = idx
		}
	}

	// set up the JWT manager
	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	// set up the unit of work and repositories
	uow := postgres.NewUnitOfWork(pool)
	userRepo := postgres.NewUserRepo()
	driverRepo := postgres.NewDriverRepo()
	vehicleTypeRepo := postgres.NewVehicleTypeRepo()
	orderRepo := postgres.NewOrderRepo()
	walletRepo := postgres.NewWalletRepo()
	reviewRepo := postgres.NewReviewRepo()

	// set up the services
	wallets := walletsvc.NewWalletService(log, uow, walletRepo)
	dispatch := dispatchsvc.NewDispatchService(log, uow, orderRepo, driverRepo, userRepo, vehicleTypeRepo, wallets, notifier, pub)
	driverLoc := driverlocsvc.NewDriverLocationService(log, uow, driverRepo, geoIndex, pub, cfg.Dispatch.SearchRadiusKm, cfg.Dispatch.NearbyLimit)
	reviews := reviewsvc.NewReviewService(log, uow, orderRepo, driverRepo, reviewRepo)

	// set up the websocket hub and the RabbitMQ-to-websocket bridge
	hub := websocket.NewHub(log)
	wsHandler := websocket.NewHandler(hub, jwtManager, log)
	if rmq != nil {
		go func() {
			if err := websocket.RunOrderStatusBridge(ctx, rmq, hub, log); err != nil && ctx.Err() == nil {
				log.Error("order status bridge stopped", logger.Err(err))
			}
		}()
	}

	// set up the HTTP handlers and their routes
	mux := http.NewServeMux()
	dispatchhandler.NewDispatchHTTPHandler(dispatch, log, jwtManager).RegisterRoutes(mux)
	driverlochandler.NewDriverLocationHTTPHandler(driverLoc, log, jwtManager).RegisterRoutes(mux)
	wallethandler.NewWalletHTTPHandler(wallets, log, jwtManager).RegisterRoutes(mux)
	reviewhandler.NewReviewHTTPHandler(reviews, log, jwtManager).RegisterRoutes(mux)
	mux.HandleFunc("GET /ws", wsHandler.Connect)
	mux.Handle("GET /metrics", observability.Handler())

	// concurrency limiter (global)
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info("dispatch service started",
		logger.Int("port", cfg.HTTP.Port),
		logger.Int("max_concurrent", maxConcurrent),
		logger.Bool("broker", rmq != nil),
		logger.Bool("geo_index", geoIndex != nil),
	)

	// start the server in a background goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			log.Error("http shutdown failed", logger.Err(err))
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http server terminated", logger.Err(err), logger.Int("port", cfg.HTTP.Port))
			return err
		}
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
