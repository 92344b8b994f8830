package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quickeats/platform/internal/domain/customers"
	"github.com/quickeats/platform/internal/ports"
)

// CustomersRepo implements persistence for customers using pgx and SQL.
type CustomersRepo struct{}

// NewCustomersRepo constructs a new CustomersRepo.
func NewCustomersRepo() ports.CustomerRepository {
	return &CustomersRepo{}
}

// Create inserts a customer with the default CUSTOMER role. A duplicate
// username maps to ports.ErrConflict.
func (r *CustomersRepo) Create(ctx context.Context, c *customers.Customer) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO customers (username, first_name, last_name, email, delivery_address, role)
		VALUES ($1, $2, $3, $4, $5, 'CUSTOMER')
		RETURNING id, role, created_at`,
		c.Username, c.FirstName, c.LastName, c.Email, c.DeliveryAddress,
	).Scan(&c.ID, &c.Role, &c.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ports.ErrConflict
	}
	return err
}

// GetByID retrieves a customer by primary key.
func (r *CustomersRepo) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	return r.getBy(ctx, `id = $1`, id)
}

// GetByUsername retrieves a customer by unique username.
func (r *CustomersRepo) GetByUsername(ctx context.Context, username string) (*customers.Customer, error) {
	return r.getBy(ctx, `username = $1`, username)
}

func (r *CustomersRepo) getBy(ctx context.Context, where string, arg any) (*customers.Customer, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c customers.Customer
	err = tx.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, email, delivery_address, role, created_at
		FROM customers
		WHERE `+where,
		arg,
	).Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Email, &c.DeliveryAddress, &c.Role, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PromoteToOwner flips role CUSTOMER -> RESTAURANT_OWNER. The WHERE guard
// makes re-processing the same event a no-op: applied=false both when the
// customer is already an owner and when the id does not exist; callers
// that care about existence check it beforehand.
func (r *CustomersRepo) PromoteToOwner(ctx context.Context, id int64) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var updated bool
	err = tx.QueryRow(ctx, `
		UPDATE customers
		SET role = 'RESTAURANT_OWNER'
		WHERE id = $1 AND role = 'CUSTOMER'
		RETURNING true
	`, id).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return updated, nil
}
