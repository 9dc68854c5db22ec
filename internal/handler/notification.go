package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/repository"
)

// NotificationHandler реализует HTTP-обработчики notification-сервиса.
type NotificationHandler struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

// NewNotificationHandler создаёт обработчик notification-сервиса.
func NewNotificationHandler(repo repository.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		repo:   repo,
		logger: logger,
	}
}

type sendNotificationRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SendNotification создаёт уведомление для пользователя.
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if req.Type == "" {
		req.Type = "info"
	}

	n := model.Notification{
		UserID:  req.UserID,
		Message: req.Message,
		Type:    req.Type,
	}
	if err := h.repo.CreateNotification(r.Context(), &n); err != nil {
		h.logger.Error("send notification error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to send notification")
		return
	}

	h.logger.Info("notification sent",
		zap.String("notificationID", n.ID),
		zap.String("userID", n.UserID),
	)

	respondJSON(w, http.StatusCreated, n)
}

// GetNotifications возвращает список всех уведомлений.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.repo.ListNotifications(r.Context())
	if err != nil {
		h.logger.Error("list notifications error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// GetNotificationsByUser возвращает уведомления указанного пользователя.
func (h *NotificationHandler) GetNotificationsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	notifications, err := h.repo.ListNotificationsByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list user notifications error", zap.Error(err), zap.String("userID", userID))
		respondError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead помечает уведомление прочитанным.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.repo.MarkNotificationRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.logger.Error("mark notification read error", zap.Error(err), zap.String("notificationID", id))
		respondError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	respondJSON(w, http.StatusOK, n)
}

// DeleteNotification удаляет уведомление.
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteNotification(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.logger.Error("delete notification error", zap.Error(err), zap.String("notificationID", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted successfully"})
}
