package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
)

// SummaryProvider определяет контракт агрегатора, используемый обработчиком.
type SummaryProvider interface {
	Refresh(ctx context.Context) model.Summary
	Snapshot() model.Summary
}

// AnalyticsHandler реализует HTTP-обработчики analytics-сервиса.
type AnalyticsHandler struct {
	aggregator SummaryProvider
	logger     *zap.Logger
}

// NewAnalyticsHandler создаёт обработчик analytics-сервиса.
func NewAnalyticsHandler(aggregator SummaryProvider, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// GetSummary запускает свежий цикл агрегации и возвращает сводку.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.aggregator.Refresh(r.Context())
	respondJSON(w, http.StatusOK, summary)
}

type statsResponse struct {
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// GetUserStats возвращает счётчик пользователей из последней сводки.
func (h *AnalyticsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	s := h.aggregator.Snapshot()
	respondJSON(w, http.StatusOK, statsResponse{Total: s.TotalUsers, Timestamp: s.GeneratedAt})
}

// GetProductStats возвращает счётчик товаров из последней сводки.
func (h *AnalyticsHandler) GetProductStats(w http.ResponseWriter, r *http.Request) {
	s := h.aggregator.Snapshot()
	respondJSON(w, http.StatusOK, statsResponse{Total: s.TotalProducts, Timestamp: s.GeneratedAt})
}

// GetOrderStats возвращает счётчик заказов из последней сводки.
func (h *AnalyticsHandler) GetOrderStats(w http.ResponseWriter, r *http.Request) {
	s := h.aggregator.Snapshot()
	respondJSON(w, http.StatusOK, statsResponse{Total: s.TotalOrders, Timestamp: s.GeneratedAt})
}
