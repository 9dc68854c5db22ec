// Package model содержит доменные сущности демонстрационного сервисного меша.
package model

import "time"

// User представляет пользователя, зарегистрированного в user-сервисе.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product описывает товар и его складской остаток.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Order описывает заказ. Цена единицы фиксируется в момент создания,
// последующие изменения цены товара на существующий заказ не влияют.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	ProductID  string      `json:"productId"`
	Quantity   int         `json:"quantity"`
	UnitPrice  float64     `json:"unitPrice"`
	TotalPrice float64     `json:"totalPrice"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Notification описывает уведомление пользователя.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary содержит сводную статистику по сервисам меша за один цикл опроса.
// Degraded перечисляет сервисы, счётчики которых взяты из предыдущего цикла.
type Summary struct {
	TotalUsers         int       `json:"totalUsers"`
	TotalProducts      int       `json:"totalProducts"`
	TotalOrders        int       `json:"totalOrders"`
	TotalNotifications int       `json:"totalNotifications"`
	GeneratedAt        time.Time `json:"generatedAt"`
	Degraded           []string  `json:"degraded"`
}

// ServiceStatus описывает исход проверки живости одного сервиса.
type ServiceStatus string

const (
	StatusHealthy   ServiceStatus = "healthy"
	StatusUnhealthy ServiceStatus = "unhealthy"
)

// ServiceHealth содержит состояние одного сервиса меша.
type ServiceHealth struct {
	Service string        `json:"service"`
	Status  ServiceStatus `json:"status"`
	Detail  string        `json:"detail,omitempty"`
}

// HealthSnapshot содержит состояние всех сервисов, собранное за один цикл опроса.
type HealthSnapshot struct {
	Services  []ServiceHealth `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}
