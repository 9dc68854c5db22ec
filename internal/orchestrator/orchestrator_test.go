package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/meshdemo-system/internal/model"
	"github.com/mmeshcher/meshdemo-system/internal/peer"
	"github.com/mmeshcher/meshdemo-system/internal/repository"
)

// fakeProduct имитирует product-сервис с одним товаром и учётом списаний.
type fakeProduct struct {
	mu    sync.Mutex
	id    string
	price float64
	stock int
	puts  int
}

func (f *fakeProduct) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !strings.HasPrefix(r.URL.Path, "/api/products/") {
			http.NotFound(w, r)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/products/")
		if id != f.id {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Product not found"}`))
			return
		}

		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":%q,"name":"widget","price":%v,"stock":%d}`, f.id, f.price, f.stock)
		case http.MethodPut:
			var req struct {
				Stock *int `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stock == nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.puts++
			f.stock = *req.Stock
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":%q,"stock":%d}`, f.id, f.stock)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (f *fakeProduct) snapshot() (stock, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock, f.puts
}

func userServer(t *testing.T, existingID string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/users/")
		w.Header().Set("Content-Type", "application/json")
		if id != existingID {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"User not found"}`))
			return
		}
		fmt.Fprintf(w, `{"id":%q,"name":"Alice","email":"alice@example.com"}`, id)
	}))
}

// notificationServer складывает принятые уведомления в канал.
func notificationServer(t *testing.T, received chan<- map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received <- payload
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
}

func newTestOrchestrator(t *testing.T, userURL, productURL, notificationURL string) (*Orchestrator, *repository.MemoryOrders) {
	t.Helper()

	repo := repository.NewMemoryOrders()
	orch := New(
		peer.NewClient("user-service", userURL, time.Second),
		peer.NewClient("product-service", productURL, time.Second),
		peer.NewClient("notification-service", notificationURL, time.Second),
		repo,
		zap.NewNop(),
	)
	return orch, repo
}

func TestCreateOrder_Success(t *testing.T) {
	users := userServer(t, "1")
	defer users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 5}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	received := make(chan map[string]any, 1)
	notifications := notificationServer(t, received)
	defer notifications.Close()

	orch, repo := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	order, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "1", ProductID: "9", Quantity: 2})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}

	if order.Status != model.OrderStatusConfirmed {
		t.Fatalf("status = %s, want %s", order.Status, model.OrderStatusConfirmed)
	}
	if order.UnitPrice != 10.0 || order.TotalPrice != 20.0 {
		t.Fatalf("unitPrice = %v, totalPrice = %v, want 10 and 20", order.UnitPrice, order.TotalPrice)
	}

	stock, puts := product.snapshot()
	if stock != 3 {
		t.Fatalf("stock = %d, want 3", stock)
	}
	if puts != 1 {
		t.Fatalf("stock updates = %d, want 1", puts)
	}

	saved, err := repo.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if saved.TotalPrice != 20.0 {
		t.Fatalf("persisted totalPrice = %v, want 20", saved.TotalPrice)
	}

	orch.Wait()
	select {
	case payload := <-received:
		if payload["userId"] != "1" {
			t.Fatalf("notification userId = %v, want 1", payload["userId"])
		}
		if payload["type"] != "order_confirmation" {
			t.Fatalf("notification type = %v", payload["type"])
		}
	default:
		t.Fatalf("notification was not dispatched")
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	users := userServer(t, "1")
	defer users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 1}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	received := make(chan map[string]any, 1)
	notifications := notificationServer(t, received)
	defer notifications.Close()

	orch, repo := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	_, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "1", ProductID: "9", Quantity: 2})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	stock, puts := product.snapshot()
	if stock != 1 {
		t.Fatalf("stock = %d, must stay 1", stock)
	}
	if puts != 0 {
		t.Fatalf("stock updates = %d, want 0", puts)
	}

	orders, _ := repo.ListOrders(context.Background())
	if len(orders) != 0 {
		t.Fatalf("orders persisted = %d, want 0", len(orders))
	}
}

func TestCreateOrder_UserNotFound_NoStockMutation(t *testing.T) {
	users := userServer(t, "1")
	defer users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 5}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	received := make(chan map[string]any, 1)
	notifications := notificationServer(t, received)
	defer notifications.Close()

	orch, _ := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	_, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "42", ProductID: "9", Quantity: 1})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}

	if _, puts := product.snapshot(); puts != 0 {
		t.Fatalf("stock updates = %d, decrement must not be called", puts)
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	users := userServer(t, "1")
	defer users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 5}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	received := make(chan map[string]any, 1)
	notifications := notificationServer(t, received)
	defer notifications.Close()

	orch, _ := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	_, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "1", ProductID: "77", Quantity: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
}

func TestCreateOrder_UserServiceUnavailable(t *testing.T) {
	users := userServer(t, "1")
	users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 5}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	received := make(chan map[string]any, 1)
	notifications := notificationServer(t, received)
	defer notifications.Close()

	orch, _ := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	_, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "1", ProductID: "9", Quantity: 1})
	if !errors.Is(err, ErrUserServiceUnavailable) {
		t.Fatalf("err = %v, want ErrUserServiceUnavailable", err)
	}

	if _, puts := product.snapshot(); puts != 0 {
		t.Fatalf("stock updates = %d, want 0", puts)
	}
}

func TestCreateOrder_NotificationFailureIsNonFatal(t *testing.T) {
	users := userServer(t, "1")
	defer users.Close()

	product := &fakeProduct{id: "9", price: 10.0, stock: 5}
	products := httptest.NewServer(product.handler())
	defer products.Close()

	notifications := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	notifications.Close()

	orch, _ := newTestOrchestrator(t, users.URL, products.URL, notifications.URL)

	order, err := orch.CreateOrder(context.Background(), OrderRequest{UserID: "1", ProductID: "9", Quantity: 2})
	if err != nil {
		t.Fatalf("CreateOrder error: %v", err)
	}
	if order.Status != model.OrderStatusConfirmed {
		t.Fatalf("status = %s, want %s", order.Status, model.OrderStatusConfirmed)
	}

	orch.Wait()
}

func TestCreateOrder_InvalidRequest(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	orch, _ := newTestOrchestrator(t, ts.URL, ts.URL, ts.URL)

	for _, req := range []OrderRequest{
		{UserID: "", ProductID: "9", Quantity: 1},
		{UserID: "1", ProductID: "", Quantity: 1},
		{UserID: "1", ProductID: "9", Quantity: 0},
		{UserID: "1", ProductID: "9", Quantity: -2},
	} {
		if _, err := orch.CreateOrder(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("req %+v: err = %v, want ErrInvalidRequest", req, err)
		}
	}

	if n := calls.Load(); n != 0 {
		t.Fatalf("peer calls = %d, invalid request must not touch the mesh", n)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrInvalidRequest, http.StatusBadRequest},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrProductNotFound, http.StatusNotFound},
		{ErrInsufficientStock, http.StatusConflict},
		{ErrUserServiceUnavailable, http.StatusServiceUnavailable},
		{ErrProductServiceUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrInsufficientStock), http.StatusConflict},
	}

	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
