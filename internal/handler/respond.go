// Package handler содержит HTTP-обработчики всех сервисов меша и панели наблюдения.
package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// Сервисы меша отвечают JSON, ошибки — в виде {"error": "..."}.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// healthHandler отвечает на проверку живости в формате {status, service, time}.
func healthHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": service,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
