package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/meshdemo-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresOrders — хранилище заказов в PostgreSQL. Подключается, когда задан
// DATABASE_URI; по умолчанию заказы живут в памяти, как и остальные сущности.
type PostgresOrders struct {
	pool *pgxpool.Pool
}

// NewPostgresOrders создаёт хранилище заказов и инициализирует схему БД через миграции.
func NewPostgresOrders(dsn string) (*PostgresOrders, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresOrders{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresOrders) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresOrders) Close() error {
	r.pool.Close()
	return nil
}

// CreateOrder сохраняет заказ и присваивает ему идентификатор.
func (r *PostgresOrders) CreateOrder(ctx context.Context, o *model.Order) error {
	var (
		id        int64
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, product_id, quantity, unit_price, total_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		o.UserID, o.ProductID, o.Quantity, o.UnitPrice, o.TotalPrice, string(o.Status),
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return fmt.Errorf("%w: %s", ErrInvalidOrder, pgErr.Message)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	o.ID = strconv.FormatInt(id, 10)
	o.CreatedAt = createdAt
	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresOrders) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity, unit_price, total_price, status, created_at
		 FROM orders
		 WHERE id = $1`,
		numID,
	)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return o, nil
}

// ListOrders возвращает все заказы в порядке создания.
func (r *PostgresOrders) ListOrders(ctx context.Context) ([]model.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, product_id, quantity, unit_price, total_price, status, created_at
		 FROM orders
		 ORDER BY id`)
}

// ListOrdersByUser возвращает заказы указанного пользователя.
func (r *PostgresOrders) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, user_id, product_id, quantity, unit_price, total_price, status, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY id`,
		userID)
}

func (r *PostgresOrders) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	out := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

// DeleteOrder удаляет заказ по идентификатору.
func (r *PostgresOrders) DeleteOrder(ctx context.Context, id string) error {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrNotFound
	}

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, numID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		id     int64
		o      model.Order
		status string
	)
	if err := row.Scan(&id, &o.UserID, &o.ProductID, &o.Quantity, &o.UnitPrice, &o.TotalPrice, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ID = strconv.FormatInt(id, 10)
	o.Status = model.OrderStatus(status)
	return &o, nil
}
