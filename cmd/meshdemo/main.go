// Package main запускает все сервисы демонстрационного меша и панель наблюдения.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/meshdemo-system/internal/analytics"
	"github.com/mmeshcher/meshdemo-system/internal/config"
	"github.com/mmeshcher/meshdemo-system/internal/handler"
	"github.com/mmeshcher/meshdemo-system/internal/health"
	"github.com/mmeshcher/meshdemo-system/internal/orchestrator"
	"github.com/mmeshcher/meshdemo-system/internal/peer"
	"github.com/mmeshcher/meshdemo-system/internal/repository"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var orderRepo repository.OrderRepository
	if cfg.DatabaseURI != "" {
		orderRepo, err = repository.NewPostgresOrders(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
	} else {
		orderRepo = repository.NewMemoryOrders()
	}
	defer orderRepo.Close()

	userRepo := repository.NewMemoryUsers()
	productRepo := repository.NewMemoryProducts()
	notificationRepo := repository.NewMemoryNotifications()

	// Клиенты за данными и клиенты проверок живости разделены:
	// у них разные таймауты.
	userClient := peer.NewClient(handler.ServiceUser, cfg.UserAddress, peer.DefaultTimeout)
	productClient := peer.NewClient(handler.ServiceProduct, cfg.ProductAddress, peer.DefaultTimeout)
	orderClient := peer.NewClient(handler.ServiceOrder, cfg.OrderAddress, peer.DefaultTimeout)
	notificationClient := peer.NewClient(handler.ServiceNotification, cfg.NotificationAddress, peer.DefaultTimeout)

	healthClients := []*peer.Client{
		peer.NewClient(handler.ServiceUser, cfg.UserAddress, peer.HealthTimeout),
		peer.NewClient(handler.ServiceProduct, cfg.ProductAddress, peer.HealthTimeout),
		peer.NewClient(handler.ServiceOrder, cfg.OrderAddress, peer.HealthTimeout),
		peer.NewClient(handler.ServiceNotification, cfg.NotificationAddress, peer.HealthTimeout),
		peer.NewClient(handler.ServiceAnalytics, cfg.AnalyticsAddress, peer.HealthTimeout),
	}

	orch := orchestrator.New(userClient, productClient, notificationClient, orderRepo, logger)
	aggregator := analytics.New(userClient, productClient, orderClient, notificationClient, logger)
	prober := health.New(healthClients, logger)

	services := []handler.ServiceInfo{
		{Name: handler.ServiceUser, URL: "http://" + cfg.UserAddress},
		{Name: handler.ServiceProduct, URL: "http://" + cfg.ProductAddress},
		{Name: handler.ServiceOrder, URL: "http://" + cfg.OrderAddress},
		{Name: handler.ServiceNotification, URL: "http://" + cfg.NotificationAddress},
		{Name: handler.ServiceAnalytics, URL: "http://" + cfg.AnalyticsAddress},
	}

	servers := []*http.Server{
		newServer(cfg.UserAddress, handler.NewUserRouter(handler.NewUserHandler(userRepo, logger), logger)),
		newServer(cfg.ProductAddress, handler.NewProductRouter(handler.NewProductHandler(productRepo, logger), logger)),
		newServer(cfg.OrderAddress, handler.NewOrderRouter(handler.NewOrderHandler(orch, orderRepo, logger), logger)),
		newServer(cfg.NotificationAddress, handler.NewNotificationRouter(handler.NewNotificationHandler(notificationRepo, logger), logger)),
		newServer(cfg.AnalyticsAddress, handler.NewAnalyticsRouter(handler.NewAnalyticsHandler(aggregator, logger), logger)),
		newServer(cfg.RunAddress, handler.NewDashboardRouter(handler.NewDashboardHandler(prober, services, logger), logger)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Фоновые циклы опроса живости и агрегации
	g.Go(func() error {
		prober.Run(ctx)
		return nil
	})
	g.Go(func() error {
		aggregator.Run(ctx)
		return nil
	})

	// HTTP-серверы всех сервисов меша
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			sugar.Infow("starting server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server %s error: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				sugar.Errorw("server shutdown error", "addr", srv.Addr, "error", err.Error())
			}
		}

		// Дожидаемся недоставленных уведомлений, чтобы не потерять их молча.
		orch.Wait()

		sugar.Info("servers stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
