package tracking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already recorded for this identify")
)

// OrderRepository persists tracked orders.
// Consumers define this interface, not the Postgres implementation.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *TrackedOrder) error
	GetOrderByIdentify(ctx context.Context, identify string) (*TrackedOrder, error)
	ListOrdersByPhone(ctx context.Context, phone string) ([]*TrackedOrder, error)
	UpdateStatus(ctx context.Context, identify string, status OrderStatus) error
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "tracking_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *TrackedOrder) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO tracked_orders
	          (id, identify, store_id, table_id, customer_name, phone, type, payment_method, status, items, total, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.Identify,
		order.StoreID,
		order.TableID,
		order.CustomerName,
		order.Phone,
		order.Type,
		order.PaymentMethod,
		order.Status,
		itemsJSON,
		order.Total)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert tracked order: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetOrderByIdentify(ctx context.Context, identify string) (*TrackedOrder, error) {
	query := `SELECT id, identify, store_id, table_id, customer_name, phone, type, payment_method, status, items, total, created_at, updated_at
	          FROM tracked_orders WHERE identify = $1`

	return r.scanOrder(r.db.QueryRowContext(ctx, query, identify))
}

func (r *Repository) ListOrdersByPhone(ctx context.Context, phone string) ([]*TrackedOrder, error) {
	query := `SELECT id, identify, store_id, table_id, customer_name, phone, type, payment_method, status, items, total, created_at, updated_at
	          FROM tracked_orders WHERE phone = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("query orders by phone: %w", err)
	}
	defer rows.Close()

	var orders []*TrackedOrder
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, identify string, status OrderStatus) error {
	query := `UPDATE tracked_orders SET status = $1, updated_at = NOW() WHERE identify = $2`

	result, err := r.db.ExecContext(ctx, query, status, identify)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOrder(row rowScanner) (*TrackedOrder, error) {
	var order TrackedOrder
	var itemsJSON []byte
	err := row.Scan(
		&order.ID,
		&order.Identify,
		&order.StoreID,
		&order.TableID,
		&order.CustomerName,
		&order.Phone,
		&order.Type,
		&order.PaymentMethod,
		&order.Status,
		&itemsJSON,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tracked order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
