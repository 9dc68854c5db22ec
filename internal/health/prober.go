// Package health опрашивает живость сервисов меша.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/peer"
)

// ProbeInterval — период фонового опроса живости.
const ProbeInterval = 5 * time.Second

// Prober параллельно опрашивает /health всех сервисов меша и держит последний
// собранный снимок. Состояние каждого сервиса зависит только от его
// собственного ответа; зависший сервис не задерживает остальные дольше
// собственного таймаута. Снимок публикуется целиком после завершения всех
// опросов. Повторов внутри цикла нет: отказавший сервис просто помечается
// нездоровым до следующего цикла.
type Prober struct {
	peers  []*peer.Client
	logger *zap.Logger

	mu      sync.RWMutex
	current model.HealthSnapshot
}

// New создаёт пробер для указанных сервисов. Порядок клиентов задаёт порядок
// записей в снимке.
func New(peers []*peer.Client, logger *zap.Logger) *Prober {
	return &Prober{
		peers:  peers,
		logger: logger,
	}
}

// ProbeNow опрашивает все сервисы параллельно и публикует полный снимок.
func (p *Prober) ProbeNow(ctx context.Context) model.HealthSnapshot {
	entries := make([]model.ServiceHealth, len(p.peers))

	var wg sync.WaitGroup
	for i, c := range p.peers {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()

			var body struct {
				Status  string `json:"status"`
				Service string `json:"service"`
			}
			res := c.Call(ctx, http.MethodGet, "/health", nil, &body)

			e := model.ServiceHealth{
				Service: c.Name(),
				Status:  model.StatusHealthy,
			}
			if !res.OK() {
				e.Status = model.StatusUnhealthy
				e.Detail = res.Detail()
				p.logger.Warn("service unhealthy",
					zap.String("service", c.Name()),
					zap.String("cause", e.Detail),
				)
			}
			entries[i] = e
		}()
	}
	wg.Wait()

	snap := model.HealthSnapshot{
		Services:  entries,
		CheckedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.current = snap
	p.mu.Unlock()

	return snap
}

// Snapshot возвращает последний опубликованный снимок.
func (p *Prober) Snapshot() model.HealthSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s := p.current
	s.Services = append([]model.ServiceHealth(nil), s.Services...)
	return s
}

// Run опрашивает сервисы с фиксированным интервалом до отмены контекста.
func (p *Prober) Run(ctx context.Context) {
	p.ProbeNow(ctx)

	ticker := time.NewTicker(ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProbeNow(ctx)
		}
	}
}
