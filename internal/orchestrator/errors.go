package orchestrator

import (
	"errors"
	"net/http"
)

// ErrInvalidRequest возвращается при некорректном запросе; внешние сервисы при этом не вызываются.
var (
	ErrInvalidRequest = errors.New("invalid order request")
	// ErrUserNotFound возвращается, если user-сервис подтвердил отсутствие пользователя.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound возвращается, если product-сервис подтвердил отсутствие товара.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock возвращается, если остатка товара не хватает на заказ.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUserServiceUnavailable возвращается при недоступности user-сервиса.
	ErrUserServiceUnavailable = errors.New("user service unavailable")
	// ErrProductServiceUnavailable возвращается при недоступности product-сервиса.
	ErrProductServiceUnavailable = errors.New("product service unavailable")
)

// HTTPStatus сопоставляет ошибке оркестратора HTTP-статус ответа.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest

	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict

	case errors.Is(err, ErrUserServiceUnavailable),
		errors.Is(err, ErrProductServiceUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
