package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mmeshcher/meshdemo-system/internal/model"
)

// Идентификаторы — десятичные строки со сквозным счётчиком от 1,
// как в исходных сервисах меша.
func nextID(n *int64) string {
	*n++
	return strconv.FormatInt(*n-1, 10)
}

func sortByID(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.ParseInt(ids[i], 10, 64)
		b, _ := strconv.ParseInt(ids[j], 10, 64)
		return a < b
	})
}

// MemoryUsers — потокобезопасное хранилище пользователей в памяти.
type MemoryUsers struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]model.User
}

// NewMemoryUsers создаёт пустое хранилище пользователей.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		nextID: 1,
		users:  make(map[string]model.User),
	}
}

// CreateUser сохраняет пользователя и присваивает ему идентификатор.
func (m *MemoryUsers) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.ID = nextID(&m.nextID)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

// GetUser возвращает пользователя по идентификатору.
func (m *MemoryUsers) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// ListUsers возвращает всех пользователей в порядке создания.
func (m *MemoryUsers) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sortByID(ids)

	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.users[id])
	}
	return out, nil
}

// UpdateUser обновляет существующего пользователя.
func (m *MemoryUsers) UpdateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

// DeleteUser удаляет пользователя по идентификатору.
func (m *MemoryUsers) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// MemoryProducts — потокобезопасное хранилище товаров в памяти.
type MemoryProducts struct {
	mu       sync.RWMutex
	nextID   int64
	products map[string]model.Product
}

// NewMemoryProducts создаёт пустое хранилище товаров.
func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{
		nextID:   1,
		products: make(map[string]model.Product),
	}
}

// CreateProduct сохраняет товар и присваивает ему идентификатор.
func (m *MemoryProducts) CreateProduct(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = nextID(&m.nextID)
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = *p
	return nil
}

// GetProduct возвращает товар по идентификатору.
func (m *MemoryProducts) GetProduct(_ context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// ListProducts возвращает все товары в порядке создания.
func (m *MemoryProducts) ListProducts(_ context.Context) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sortByID(ids)

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.products[id])
	}
	return out, nil
}

// UpdateProduct обновляет существующий товар.
func (m *MemoryProducts) UpdateProduct(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	m.products[p.ID] = *p
	return nil
}

// DeleteProduct удаляет товар по идентификатору.
func (m *MemoryProducts) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// MemoryOrders — потокобезопасное хранилище заказов в памяти.
type MemoryOrders struct {
	mu     sync.RWMutex
	nextID int64
	orders map[string]model.Order
}

// NewMemoryOrders создаёт пустое хранилище заказов.
func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{
		nextID: 1,
		orders: make(map[string]model.Order),
	}
}

// Close освобождает ресурсы хранилища.
func (m *MemoryOrders) Close() error {
	return nil
}

// CreateOrder сохраняет заказ и присваивает ему идентификатор.
func (m *MemoryOrders) CreateOrder(_ context.Context, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o.ID = nextID(&m.nextID)
	o.CreatedAt = time.Now().UTC()
	m.orders[o.ID] = *o
	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (m *MemoryOrders) GetOrder(_ context.Context, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

// ListOrders возвращает все заказы в порядке создания.
func (m *MemoryOrders) ListOrders(_ context.Context) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, id)
	}
	sortByID(ids)

	out := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.orders[id])
	}
	return out, nil
}

// ListOrdersByUser возвращает заказы указанного пользователя.
func (m *MemoryOrders) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	all, err := m.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Order, 0)
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// DeleteOrder удаляет заказ по идентификатору.
func (m *MemoryOrders) DeleteOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// MemoryNotifications — потокобезопасное хранилище уведомлений в памяти.
type MemoryNotifications struct {
	mu            sync.RWMutex
	nextID        int64
	notifications map[string]model.Notification
}

// NewMemoryNotifications создаёт пустое хранилище уведомлений.
func NewMemoryNotifications() *MemoryNotifications {
	return &MemoryNotifications{
		nextID:        1,
		notifications: make(map[string]model.Notification),
	}
}

// CreateNotification сохраняет уведомление и присваивает ему идентификатор.
func (m *MemoryNotifications) CreateNotification(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = nextID(&m.nextID)
	n.CreatedAt = time.Now().UTC()
	m.notifications[n.ID] = *n
	return nil
}

// GetNotification возвращает уведомление по идентификатору.
func (m *MemoryNotifications) GetNotification(_ context.Context, id string) (*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

// ListNotifications возвращает все уведомления в порядке создания.
func (m *MemoryNotifications) ListNotifications(_ context.Context) ([]model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.notifications))
	for id := range m.notifications {
		ids = append(ids, id)
	}
	sortByID(ids)

	out := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.notifications[id])
	}
	return out, nil
}

// ListNotificationsByUser возвращает уведомления указанного пользователя.
func (m *MemoryNotifications) ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	all, err := m.ListNotifications(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Notification, 0)
	for _, n := range all {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

// MarkNotificationRead помечает уведомление прочитанным и возвращает его.
func (m *MemoryNotifications) MarkNotificationRead(_ context.Context, id string) (*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.Read = true
	m.notifications[id] = n
	return &n, nil
}

// DeleteNotification удаляет уведомление по идентификатору.
func (m *MemoryNotifications) DeleteNotification(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notifications[id]; !ok {
		return ErrNotFound
	}
	delete(m.notifications, id)
	return nil
}
