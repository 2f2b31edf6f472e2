package repository

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
	_ "github.com/lib/pq"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
)

// Repository is the postgres-backed record store. Every mutating write also
// inserts an outbox row in the same transaction, so the change feed can
// never announce a write that did not commit.
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
	fmt.Println("Connected to postgres!")
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
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

func (r *Repository) Close() error {
	return r.db.Close()
}

// enqueueOutbox records a change event inside the caller's transaction.
func enqueueOutbox(ctx context.Context, tx *sql.Tx, table string, kind feed.EventKind, rowID string, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	query := `INSERT INTO outbox_events (table_name, event_kind, row_id, payload, processed, created_at)
	          VALUES ($1, $2, $3, $4, false, NOW())`
	if _, err := tx.ExecContext(ctx, query, table, string(kind), rowID, payload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// --- orders ---

const orderColumns = `id, customer_name, customer_contact, items, amount, status, payment_status,
	payment_method, cancellation_reason, rejection_reason, created_at, display_date, updated_at`

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.CustomerName,
		order.CustomerContact,
		itemsJSON,
		order.Amount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.CancellationReason,
		order.RejectionReason,
		order.CreatedAt,
		order.DisplayDate,
		order.UpdatedAt,
	)
	if insertErr != nil {
		return fmt.Errorf("insert order: %w", insertErr)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableOrders, feed.EventCreated, order.ID, order); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte
	err := row.Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerContact,
		&itemsJSON,
		&order.Amount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.CancellationReason,
		&order.RejectionReason,
		&order.CreatedAt,
		&order.DisplayDate,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	return &order, nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *Repository) ListOrdersByIDs(ctx context.Context, ids []string) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ANY($1) ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, pq.Array(ids))
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE orders SET
			customer_name = $2, customer_contact = $3, items = $4, amount = $5,
			status = $6, payment_status = $7, payment_method = $8,
			cancellation_reason = $9, rejection_reason = $10, updated_at = $11
		WHERE id = $1`
	res, updateErr := tx.ExecContext(ctx, query,
		order.ID,
		order.CustomerName,
		order.CustomerContact,
		itemsJSON,
		order.Amount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.CancellationReason,
		order.RejectionReason,
		order.UpdatedAt,
	)
	if updateErr != nil {
		return fmt.Errorf("update order: %w", updateErr)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}

	if err := enqueueOutbox(ctx, tx, feed.TableOrders, feed.EventUpdated, order.ID, order); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) DeleteOrder(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Last-known image rides on the DELETED event.
	order, err := r.scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("query order for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableOrders, feed.EventDeleted, id, order); err != nil {
		return err
	}
	return tx.Commit()
}

// --- users ---

const userColumns = `id, name, email, avatar, role, created_at, updated_at`

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Avatar, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Avatar, &user.Role,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND email = $2
	          ORDER BY created_at ASC LIMIT 1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, domain.RoleAdmin, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin by email: %w", err)
	}
	return user, nil
}

func (r *Repository) GetFirstAdmin(ctx context.Context) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1
	          ORDER BY created_at ASC LIMIT 1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, domain.RoleAdmin))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query first admin: %w", err)
	}
	return user, nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id string, profile domain.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE users SET name = $2, email = $3, avatar = $4, updated_at = NOW()
	          WHERE id = $1`
	res, updateErr := tx.ExecContext(ctx, query, id, profile.Name, profile.Email, profile.Avatar)
	if updateErr != nil {
		return fmt.Errorf("update user profile: %w", updateErr)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}

	user, err := r.scanUser(tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return fmt.Errorf("query user after profile update: %w", err)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableUsers, feed.EventUpdated, id, user); err != nil {
		return err
	}
	return tx.Commit()
}

// --- products ---

const productColumns = `id, name, price, image, stock, created_at, updated_at`

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, insertErr := tx.ExecContext(ctx, query,
		product.ID, product.Name, product.Price, product.Image, product.Stock,
		product.CreatedAt, product.UpdatedAt)
	if insertErr != nil {
		return fmt.Errorf("insert product: %w", insertErr)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableProducts, feed.EventCreated, product.ID, product); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE products SET name = $2, price = $3, image = $4, stock = $5, updated_at = $6
	          WHERE id = $1`
	res, updateErr := tx.ExecContext(ctx, query,
		product.ID, product.Name, product.Price, product.Image, product.Stock, product.UpdatedAt)
	if updateErr != nil {
		return fmt.Errorf("update product: %w", updateErr)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}

	if err := enqueueOutbox(ctx, tx, feed.TableProducts, feed.EventUpdated, product.ID, product); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	p, err := r.scanProduct(tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("query product for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableProducts, feed.EventDeleted, id, p); err != nil {
		return err
	}
	return tx.Commit()
}

// --- customers ---

const customerColumns = `id, name, phone, address, created_at, updated_at`

func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, insertErr := tx.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Address,
		customer.CreatedAt, customer.UpdatedAt)
	if insertErr != nil {
		return fmt.Errorf("insert customer: %w", insertErr)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableCustomers, feed.EventCreated, customer.ID, customer); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := r.scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query customer by id: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return customers, nil
}

func (r *Repository) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE customers SET name = $2, phone = $3, address = $4, updated_at = $5 WHERE id = $1`
	res, updateErr := tx.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Address, customer.UpdatedAt)
	if updateErr != nil {
		return fmt.Errorf("update customer: %w", updateErr)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}

	if err := enqueueOutbox(ctx, tx, feed.TableCustomers, feed.EventUpdated, customer.ID, customer); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c, err := r.scanCustomer(tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCustomerNotFound
	}
	if err != nil {
		return fmt.Errorf("query customer for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	if err := enqueueOutbox(ctx, tx, feed.TableCustomers, feed.EventDeleted, id, c); err != nil {
		return err
	}
	return tx.Commit()
}

// --- outbox (feed.OutboxSource) ---

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*feed.OutboxEvent, error) {
	query := `SELECT id, table_name, event_kind, row_id, payload, created_at
	          FROM outbox_events WHERE processed = false ORDER BY id ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*feed.OutboxEvent
	for rows.Next() {
		var e feed.OutboxEvent
		var kind string
		if err := rows.Scan(&e.ID, &e.Table, &kind, &e.RowID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		e.Kind = feed.EventKind(kind)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventProcessed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET processed = true, processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}
