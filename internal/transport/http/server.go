package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsegram/internal/config"
	"pulsegram/internal/database"
	"pulsegram/internal/handler"
	"pulsegram/internal/push"
	"pulsegram/internal/queue"
	appredis "pulsegram/internal/redis"
	"pulsegram/internal/relay"
	"pulsegram/internal/repository"
	"pulsegram/internal/service"
	"pulsegram/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole engine together and serves until SIGINT/SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis (event stream)
	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// 4. Push transport. The client is explicitly constructed here and
	// handed to the dispatcher; nil means dispatch is disabled but the
	// subscription API still works.
	var pushClient push.Client
	webPush, err := push.NewWebPushClient(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber, cfg.PushTTL)
	if err != nil {
		log.Printf("[Server] Push delivery disabled: %v (run cmd/vapidgen to create a keypair)", err)
	} else {
		pushClient = webPush
	}

	// 5. Core services
	subRepo := repository.NewSubscriptionRepository(db)
	subService := service.NewSubscriptionService(subRepo)

	hub := relay.NewHub()
	dispatcher := service.NewDispatcher(subRepo, pushClient, hub, cfg.VAPIDPublicKey, cfg.PushTimeout)

	// 6. Notification workers consuming the domain-event stream
	consumer := queue.NewConsumer(redisClient.Client)
	manager := worker.NewManager(consumer, worker.NewHandler(dispatcher), worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 7. Periodic retention cleanup, off the request path
	go runCleanup(ctx, subService, cfg.CleanupRetentionDays)

	// 8. HTTP server
	router := NewRouter(RouterConfig{
		PushHandler:  handler.NewPushHandler(subService, dispatcher),
		RelayHandler: handler.NewRelayHandler(hub),
		JWTSecret:    cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Printf("[Server] Received %s, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// runCleanup deletes long-inactive subscriptions once a day.
func runCleanup(ctx context.Context, subs *service.SubscriptionService, retentionDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := subs.Cleanup(ctx, retentionDays); err != nil {
				log.Printf("[Server] Cleanup failed: %v", err)
			}
		}
	}
}
