// Package orchestrator координирует создание заказа через сервисы меша.
//
// Последовательность жёсткая и обрывается на первом отказе: проверка запроса,
// проверка пользователя и товара, резервирование остатка, запись заказа,
// затем отправка уведомления по принципу «выстрелил и забыл».
package orchestrator

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/peer"
	"github.com/mmeshcher/meshdemo-system/internal/repository"
)

// OrderRequest описывает входящий запрос на создание заказа.
type OrderRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type productInfo struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Orchestrator выполняет сценарий создания заказа поверх сервисов меша.
type Orchestrator struct {
	users         *peer.Client
	products      *peer.Client
	notifications *peer.Client
	orders        repository.OrderRepository
	logger        *zap.Logger

	notify sync.WaitGroup
}

// New создаёт оркестратор с указанными клиентами сервисов и хранилищем заказов.
func New(users, products, notifications *peer.Client, orders repository.OrderRepository, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		users:         users,
		products:      products,
		notifications: notifications,
		orders:        orders,
		logger:        logger,
	}
}

// CreateOrder проверяет пользователя и товар, резервирует остаток, сохраняет
// заказ и отправляет уведомление. Остаток списывается до записи заказа:
// неудачное списание отменяет всю операцию. Блокировки остатка нет —
// конкурирующие заказы на один товар могут обогнать друг друга между
// проверкой и списанием, как и в исходной системе.
func (o *Orchestrator) CreateOrder(ctx context.Context, req OrderRequest) (*model.Order, error) {
	if req.UserID == "" || req.ProductID == "" || req.Quantity < 1 {
		return nil, ErrInvalidRequest
	}

	// Проверки пользователя и товара независимы и выполняются параллельно.
	// Отмена между ними не распространяется: при отказе пользовательской
	// проверки товарный запрос довершается в рамках своего таймаута,
	// а его результат отбрасывается.
	userCh := make(chan peer.Result, 1)
	go func() {
		userCh <- o.users.Call(ctx, http.MethodGet, "/api/users/"+req.UserID, nil, nil)
	}()

	var product productInfo
	productCh := make(chan peer.Result, 1)
	go func() {
		productCh <- o.products.Call(ctx, http.MethodGet, "/api/products/"+req.ProductID, nil, &product)
	}()

	userRes := <-userCh
	switch {
	case userRes.OK():
	case userRes.Outcome == peer.OutcomeHTTPError && userRes.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, req.UserID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUserServiceUnavailable, userRes.Detail())
	}

	productRes := <-productCh
	switch {
	case productRes.OK():
	case productRes.Outcome == peer.OutcomeHTTPError && productRes.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrProductServiceUnavailable, productRes.Detail())
	}

	if product.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, product.Stock, req.Quantity)
	}

	update := map[string]any{"stock": product.Stock - req.Quantity}
	if res := o.products.Call(ctx, http.MethodPut, "/api/products/"+req.ProductID, update, nil); !res.OK() {
		return nil, fmt.Errorf("%w: reserve stock: %s", ErrProductServiceUnavailable, res.Detail())
	}

	order := &model.Order{
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		UnitPrice:  product.Price,
		TotalPrice: product.Price * float64(req.Quantity),
		Status:     model.OrderStatusConfirmed,
	}
	if err := o.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	o.dispatchNotification(order)

	o.logger.Info("order created",
		zap.String("orderID", order.ID),
		zap.String("userID", order.UserID),
		zap.String("productID", order.ProductID),
		zap.Int("quantity", order.Quantity),
	)

	return order, nil
}

// dispatchNotification отправляет уведомление, не блокируя ответ на заказ.
// Заказ к этому моменту уже подтверждён, поэтому неудача только логируется:
// пользователь может не получить уведомление о созданном заказе.
func (o *Orchestrator) dispatchNotification(order *model.Order) {
	o.notify.Add(1)
	go func() {
		defer o.notify.Done()

		ctx, cancel := context.WithTimeout(context.Background(), peer.DefaultTimeout)
		defer cancel()

		payload := map[string]any{
			"userId":  order.UserID,
			"message": fmt.Sprintf("Your order #%s has been confirmed", order.ID),
			"type":    "order_confirmation",
		}
		if res := o.notifications.Call(ctx, http.MethodPost, "/api/notifications/send", payload, nil); !res.OK() {
			o.logger.Warn("failed to send notification",
				zap.String("orderID", order.ID),
				zap.String("cause", res.Detail()),
			)
		}
	}()
}

// Wait дожидается завершения всех запущенных отправок уведомлений.
// Вызывается при остановке процесса, чтобы не потерять уведомления молча.
func (o *Orchestrator) Wait() {
	o.notify.Wait()
}
