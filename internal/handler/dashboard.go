package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
)

// HealthProvider определяет контракт пробера живости, используемый панелью наблюдения.
type HealthProvider interface {
	Snapshot() model.HealthSnapshot
}

// ServiceInfo описывает один известный панели сервис меша.
type ServiceInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DashboardHandler реализует HTTP API панели наблюдения за мешем.
type DashboardHandler struct {
	prober   HealthProvider
	services []ServiceInfo
	logger   *zap.Logger
}

// NewDashboardHandler создаёт обработчик панели наблюдения.
func NewDashboardHandler(prober HealthProvider, services []ServiceInfo, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		prober:   prober,
		services: services,
		logger:   logger,
	}
}

// GetHealth возвращает последний снимок состояния всех сервисов.
func (h *DashboardHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.prober.Snapshot())
}

// GetServices возвращает список известных сервисов меша и их адреса.
func (h *DashboardHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.services)
}
