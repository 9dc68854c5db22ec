// Package config содержит логику чтения конфигурации демонстрационного меша.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит адреса всех слушателей меша и параметры хранилища заказов.
// Пустой DatabaseURI означает хранение заказов в памяти.
type Config struct {
	RunAddress          string `env:"RUN_ADDRESS"`
	DatabaseURI         string `env:"DATABASE_URI"`
	UserAddress         string `env:"USER_ADDRESS"`
	ProductAddress      string `env:"PRODUCT_ADDRESS"`
	OrderAddress        string `env:"ORDER_ADDRESS"`
	NotificationAddress string `env:"NOTIFICATION_ADDRESS"`
	AnalyticsAddress    string `env:"ANALYTICS_ADDRESS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envUserAddress := cfg.UserAddress
	envProductAddress := cfg.ProductAddress
	envOrderAddress := cfg.OrderAddress
	envNotificationAddress := cfg.NotificationAddress
	envAnalyticsAddress := cfg.AnalyticsAddress

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for the dashboard HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for the order store (empty = in-memory)")
	flag.StringVar(&cfg.UserAddress, "u", "localhost:8001", "address and port for the user service")
	flag.StringVar(&cfg.ProductAddress, "p", "localhost:8002", "address and port for the product service")
	flag.StringVar(&cfg.OrderAddress, "o", "localhost:8003", "address and port for the order service")
	flag.StringVar(&cfg.NotificationAddress, "n", "localhost:8004", "address and port for the notification service")
	flag.StringVar(&cfg.AnalyticsAddress, "s", "localhost:8005", "address and port for the analytics service")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envUserAddress != "" {
		cfg.UserAddress = envUserAddress
	}
	if envProductAddress != "" {
		cfg.ProductAddress = envProductAddress
	}
	if envOrderAddress != "" {
		cfg.OrderAddress = envOrderAddress
	}
	if envNotificationAddress != "" {
		cfg.NotificationAddress = envNotificationAddress
	}
	if envAnalyticsAddress != "" {
		cfg.AnalyticsAddress = envAnalyticsAddress
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
