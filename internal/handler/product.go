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

// ProductHandler реализует HTTP-обработчики product-сервиса.
type ProductHandler struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductHandler создаёт обработчик product-сервиса.
func NewProductHandler(repo repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   repo,
		logger: logger,
	}
}

type productRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock"`
}

func validateProduct(p *model.Product) string {
	if p.Name == "" {
		return "Product name is required"
	}
	if p.Price < 0 {
		return "Product price must be non-negative"
	}
	if p.Stock < 0 {
		return "Product stock must be non-negative"
	}
	return ""
}

// CreateProduct создаёт новый товар.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	p := model.Product{}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	if msg := validateProduct(&p); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.CreateProduct(r.Context(), &p); err != nil {
		h.logger.Error("create product error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// GetProducts возвращает список всех товаров.
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to get products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetProduct возвращает товар по идентификатору.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("get product error", zap.Error(err), zap.String("productID", id))
		respondError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// UpdateProduct частично обновляет товар. Через этот обработчик оркестратор
// заказов списывает складской остаток.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	p, err := h.repo.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("get product error", zap.Error(err), zap.String("productID", id))
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	if msg := validateProduct(p); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.UpdateProduct(r.Context(), p); err != nil {
		h.logger.Error("update product error", zap.Error(err), zap.String("productID", id))
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// DeleteProduct удаляет товар.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("delete product error", zap.Error(err), zap.String("productID", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
