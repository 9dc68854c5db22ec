// Package analytics собирает сводную статистику по сервисам меша.
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/peer"
)

// RefreshInterval — период фонового обновления сводки.
const RefreshInterval = 10 * time.Second

type source struct {
	client *peer.Client
	path   string
}

// Aggregator параллельно опрашивает четыре сервиса меша и держит последнюю
// собранную сводку. Отказ источника не обнуляет его счётчик: значение берётся
// из предыдущего цикла, а сервис попадает в Degraded. Сводка публикуется
// целиком после завершения всех четырёх опросов.
type Aggregator struct {
	sources [4]source
	logger  *zap.Logger

	mu      sync.RWMutex
	current model.Summary
}

// New создаёт агрегатор поверх клиентов четырёх сервисов меша.
func New(users, products, orders, notifications *peer.Client, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		sources: [4]source{
			{client: users, path: "/api/users"},
			{client: products, path: "/api/products"},
			{client: orders, path: "/api/orders"},
			{client: notifications, path: "/api/notifications"},
		},
		logger: logger,
	}
}

// Refresh опрашивает все источники, собирает сводку и публикует её целиком.
// Количество считается по длине списка, который отдаёт сервис.
// На первом цикле отказавшие источники дают ноль.
func (a *Aggregator) Refresh(ctx context.Context) model.Summary {
	prev := a.Snapshot()

	type outcome struct {
		total int
		ok    bool
	}
	var results [4]outcome

	var wg sync.WaitGroup
	for i, s := range a.sources {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()

			var items []json.RawMessage
			res := s.client.Call(ctx, http.MethodGet, s.path, nil, &items)
			results[i] = outcome{total: len(items), ok: res.OK()}
		}()
	}
	wg.Wait()

	summary := model.Summary{
		GeneratedAt: time.Now().UTC(),
		Degraded:    []string{},
	}
	fields := [4]*int{
		&summary.TotalUsers,
		&summary.TotalProducts,
		&summary.TotalOrders,
		&summary.TotalNotifications,
	}
	prevFields := [4]int{
		prev.TotalUsers,
		prev.TotalProducts,
		prev.TotalOrders,
		prev.TotalNotifications,
	}

	for i, r := range results {
		if r.ok {
			*fields[i] = r.total
			continue
		}
		*fields[i] = prevFields[i]
		summary.Degraded = append(summary.Degraded, a.sources[i].client.Name())
		a.logger.Warn("analytics source degraded",
			zap.String("service", a.sources[i].client.Name()),
		)
	}

	a.mu.Lock()
	a.current = summary
	a.mu.Unlock()

	return summary
}

// Snapshot возвращает последнюю опубликованную сводку.
func (a *Aggregator) Snapshot() model.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := a.current
	s.Degraded = append([]string(nil), s.Degraded...)
	return s
}

// Run обновляет сводку с фиксированным интервалом до отмены контекста.
func (a *Aggregator) Run(ctx context.Context) {
	a.Refresh(ctx)

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Refresh(ctx)
		}
	}
}
