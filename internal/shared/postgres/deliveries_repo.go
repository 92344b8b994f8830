package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quickeats/platform/internal/domain/deliveries"
	"github.com/quickeats/platform/internal/ports"
)

// DeliveriesRepo implements persistence for deliveries using pgx and SQL.
// The deliveries table has a unique index on order_id, which is the last
// line of defense for the one-delivery-per-order invariant.
type DeliveriesRepo struct{}

// NewDeliveriesRepo constructs a new DeliveriesRepo.
func NewDeliveriesRepo() ports.DeliveryRepository {
	return &DeliveriesRepo{}
}

const deliveryColumns = `
	id, order_id, status, driver_name, driver_phone, pickup_address,
	delivery_address, assigned_at, picked_up_at, delivered_at,
	created_at, updated_at`

// Create inserts a delivery row. A duplicate order_id maps to
// ports.ErrConflict so redelivered OrderPlaced events stay harmless even
// when two workers race past the existence check.
func (r *DeliveriesRepo) Create(ctx context.Context, d *deliveries.Delivery) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO deliveries (order_id, status, driver_name, driver_phone,
		                        pickup_address, delivery_address, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at, updated_at`,
		d.OrderID,
		d.Status,
		d.DriverName,
		d.DriverPhone,
		d.PickupAddress,
		d.DeliveryAddress,
		d.AssignedAt,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// the ON CONFLICT branch fired: a delivery for this order exists
		return ports.ErrConflict
	}
	return err
}

// GetByID retrieves a delivery by its primary key.
func (r *DeliveriesRepo) GetByID(ctx context.Context, id int64) (*deliveries.Delivery, error) {
	return r.getBy(ctx, `id`, id)
}

// GetByOrderID retrieves the delivery assigned to an order.
func (r *DeliveriesRepo) GetByOrderID(ctx context.Context, orderID int64) (*deliveries.Delivery, error) {
	return r.getBy(ctx, `order_id`, orderID)
}

func (r *DeliveriesRepo) getBy(ctx context.Context, column string, value int64) (*deliveries.Delivery, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var d deliveries.Delivery
	err = tx.QueryRow(ctx, `
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE `+column+` = $1
	`, value).Scan(
		&d.ID, &d.OrderID, &d.Status, &d.DriverName, &d.DriverPhone,
		&d.PickupAddress, &d.DeliveryAddress, &d.AssignedAt, &d.PickedUpAt,
		&d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByStatus returns deliveries currently in the given status.
func (r *DeliveriesRepo) ListByStatus(ctx context.Context, status deliveries.DeliveryStatus) ([]deliveries.Delivery, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE status = $1
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []deliveries.Delivery
	for rows.Next() {
		var d deliveries.Delivery
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.Status, &d.DriverName, &d.DriverPhone,
			&d.PickupAddress, &d.DeliveryAddress, &d.AssignedAt, &d.PickedUpAt,
			&d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatusCAS moves a delivery from expected to next, stamping the
// matching timestamp column.
func (r *DeliveriesRepo) UpdateStatusCAS(ctx context.Context, id int64, expected, next deliveries.DeliveryStatus, now time.Time) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var pickedUpAt, deliveredAt *time.Time
	switch next {
	case deliveries.StatusPickedUp:
		pickedUpAt = &now
	case deliveries.StatusDelivered:
		deliveredAt = &now
	}

	var updated bool
	err = tx.QueryRow(ctx, `
		UPDATE deliveries
		SET status = $1,
		    picked_up_at = COALESCE($2, picked_up_at),
		    delivered_at = COALESCE($3, delivered_at),
		    updated_at = now()
		WHERE id = $4 AND status = $5
		RETURNING true
	`, next, pickedUpAt, deliveredAt, id, expected).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return updated, nil
}
