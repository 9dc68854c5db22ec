// Package repository содержит хранилища сущностей меша.
package repository

import (
	"context"
	"errors"

	"github.com/mmeshcher/meshdemo-system/internal/model"
)

// ErrNotFound возвращается, если сущность с указанным идентификатором отсутствует.
var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidOrder возвращается хранилищем при нарушении ограничений заказа.
	ErrInvalidOrder = errors.New("invalid order")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// ProductRepository описывает контракт хранилища товаров.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// OrderRepository описывает контракт хранилища заказов.
type OrderRepository interface {
	Close() error
	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// NotificationRepository описывает контракт хранилища уведомлений.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (*model.Notification, error)
	ListNotifications(ctx context.Context) ([]model.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*model.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
}
