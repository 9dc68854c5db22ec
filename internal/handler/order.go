package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/orchestrator"
	"github.com/mmeshcher/meshdemo-system/internal/repository"
)

// OrderCreator определяет контракт создания заказа, используемый обработчиком.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req orchestrator.OrderRequest) (*model.Order, error)
}

// OrderHandler реализует HTTP-обработчики order-сервиса.
type OrderHandler struct {
	creator OrderCreator
	repo    repository.OrderRepository
	logger  *zap.Logger
}

// NewOrderHandler создаёт обработчик order-сервиса.
func NewOrderHandler(creator OrderCreator, repo repository.OrderRepository, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		creator: creator,
		repo:    repo,
		logger:  logger,
	}
}

// CreateOrder запускает оркестрацию создания заказа.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := h.creator.CreateOrder(r.Context(), req)
	if err != nil {
		status := orchestrator.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("create order error", zap.Error(err))
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GetOrders возвращает список всех заказов.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("list orders error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// GetOrder возвращает заказ по идентификатору.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.repo.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("get order error", zap.Error(err), zap.String("orderID", id))
		respondError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetOrdersByUser возвращает заказы указанного пользователя.
func (h *OrderHandler) GetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	orders, err := h.repo.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list user orders error", zap.Error(err), zap.String("userID", userID))
		respondError(w, http.StatusInternalServerError, "Failed to get orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// DeleteOrder удаляет заказ.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("delete order error", zap.Error(err), zap.String("orderID", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
