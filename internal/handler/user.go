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

// UserHandler реализует HTTP-обработчики user-сервиса.
type UserHandler struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

// NewUserHandler создаёт обработчик user-сервиса.
func NewUserHandler(repo repository.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		repo:   repo,
		logger: logger,
	}
}

type userRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// CreateUser создаёт нового пользователя.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	u := model.User{}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if u.Name == "" || u.Email == "" {
		respondError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	if err := h.repo.CreateUser(r.Context(), &u); err != nil {
		h.logger.Error("create user error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, u)
}

// GetUsers возвращает список всех пользователей.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to get users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetUser возвращает пользователя по идентификатору.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.repo.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user error", zap.Error(err), zap.String("userID", id))
		respondError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// UpdateUser частично обновляет пользователя.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	u, err := h.repo.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("get user error", zap.Error(err), zap.String("userID", id))
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if u.Name == "" || u.Email == "" {
		respondError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	if err := h.repo.UpdateUser(r.Context(), u); err != nil {
		h.logger.Error("update user error", zap.Error(err), zap.String("userID", id))
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// DeleteUser удаляет пользователя.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("delete user error", zap.Error(err), zap.String("userID", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
