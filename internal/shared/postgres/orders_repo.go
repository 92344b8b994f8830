package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/quickeats/platform/internal/domain/orders"
	"github.com/quickeats/platform/internal/ports"
)

// OrdersRepo implements persistence for orders using pgx and SQL.
type OrdersRepo struct{}

// NewOrdersRepo constructs a new OrdersRepo.
func NewOrdersRepo() ports.OrderRepository {
	return &OrdersRepo{}
}

// Create inserts the order header and its items, returning generated ids
// and timestamps into the aggregate.
func (r *OrdersRepo) Create(ctx context.Context, order *orders.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// monetary columns are NUMERIC(10,2); we send integer cents and divide
	// by 100 in SQL to avoid floating errors
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, customer_name, restaurant_id, restaurant_name,
		                    restaurant_address, delivery_address, special_instructions,
		                    estimated_delivery_time, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric/100, 'PLACED')
		RETURNING id, status, created_at, updated_at`,
		order.CustomerID,
		order.CustomerName,
		order.RestaurantID,
		order.RestaurantName,
		order.RestaurantAddress,
		order.DeliveryAddress,
		order.SpecialInstructions,
		order.EstimatedDeliveryTime,
		int64(order.TotalAmount),
	).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range order.Items {
		it := &order.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, item_name, quantity,
			                         unit_price, subtotal, special_instructions)
			VALUES ($1, $2, $3, $4, $5::numeric/100, $6::numeric/100, $7)
			RETURNING id`,
			order.ID,
			it.MenuItemID,
			it.ItemName,
			it.Quantity,
			int64(it.UnitPrice),
			int64(it.Subtotal),
			it.SpecialInstructions,
		).Scan(&it.ID)
		if err != nil {
			return err
		}
		it.OrderID = order.ID
	}

	return nil
}

// GetByID retrieves an order with its items.
func (r *OrdersRepo) GetByID(ctx context.Context, id int64) (*orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var order orders.Order
	err = tx.QueryRow(ctx, `
		SELECT id, customer_id, customer_name, restaurant_id, restaurant_name,
		       restaurant_address, delivery_address, special_instructions,
		       estimated_delivery_time, (total_amount*100)::bigint, status,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.CustomerName, &order.RestaurantID,
		&order.RestaurantName, &order.RestaurantAddress, &order.DeliveryAddress,
		&order.SpecialInstructions, &order.EstimatedDeliveryTime, &order.TotalAmount,
		&order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, menu_item_id, item_name, quantity,
		       (unit_price*100)::bigint, (subtotal*100)::bigint, special_instructions
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item orders.OrderItem
		item.OrderID = order.ID
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.ItemName, &item.Quantity,
			&item.UnitPrice, &item.Subtotal, &item.SpecialInstructions); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByCustomer returns order headers for a customer, newest first.
func (r *OrdersRepo) ListByCustomer(ctx context.Context, customerID int64) ([]orders.Order, error) {
	return r.list(ctx, `customer_id`, customerID)
}

// ListByRestaurant returns order headers for a restaurant, newest first.
func (r *OrdersRepo) ListByRestaurant(ctx context.Context, restaurantID int64) ([]orders.Order, error) {
	return r.list(ctx, `restaurant_id`, restaurantID)
}

func (r *OrdersRepo) list(ctx context.Context, column string, value int64) ([]orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, customer_id, customer_name, restaurant_id, restaurant_name,
		       restaurant_address, delivery_address, special_instructions,
		       estimated_delivery_time, (total_amount*100)::bigint, status,
		       created_at, updated_at
		FROM orders
		WHERE `+column+` = $1
		ORDER BY created_at DESC
	`, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var order orders.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.CustomerName, &order.RestaurantID,
			&order.RestaurantName, &order.RestaurantAddress, &order.DeliveryAddress,
			&order.SpecialInstructions, &order.EstimatedDeliveryTime, &order.TotalAmount,
			&order.Status, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// UpdateStatusCAS updates the order status using a compare-and-swap.
func (r *OrdersRepo) UpdateStatusCAS(ctx context.Context, id int64, expected, next orders.OrderStatus) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var updated bool
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING true
	`, next, id, expected).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return updated, nil
}
