package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/quickeats/platform/internal/domain/restaurants"
	"github.com/quickeats/platform/internal/ports"
)

// RestaurantsRepo implements persistence for restaurants and menu items.
type RestaurantsRepo struct{}

// NewRestaurantsRepo constructs a new RestaurantsRepo.
func NewRestaurantsRepo() ports.RestaurantRepository {
	return &RestaurantsRepo{}
}

// Create inserts a restaurant, active by default.
func (r *RestaurantsRepo) Create(ctx context.Context, rest *restaurants.Restaurant) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO restaurants (name, description, cuisine_type, address, city,
		                         phone, estimated_delivery_minutes, owner_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING id, active, created_at`,
		rest.Name, rest.Description, rest.CuisineType, rest.Address, rest.City,
		rest.Phone, rest.EstimatedDeliveryMinutes, rest.OwnerID,
	).Scan(&rest.ID, &rest.Active, &rest.CreatedAt)
}

// GetByID retrieves a restaurant by primary key.
func (r *RestaurantsRepo) GetByID(ctx context.Context, id int64) (*restaurants.Restaurant, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rest restaurants.Restaurant
	err = tx.QueryRow(ctx, `
		SELECT id, name, description, cuisine_type, address, city, phone,
		       estimated_delivery_minutes, active, owner_id, created_at
		FROM restaurants
		WHERE id = $1
	`, id).Scan(
		&rest.ID, &rest.Name, &rest.Description, &rest.CuisineType, &rest.Address,
		&rest.City, &rest.Phone, &rest.EstimatedDeliveryMinutes, &rest.Active,
		&rest.OwnerID, &rest.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// ListByCity returns active restaurants in a city, case-insensitively.
func (r *RestaurantsRepo) ListByCity(ctx context.Context, city string) ([]restaurants.Restaurant, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, description, cuisine_type, address, city, phone,
		       estimated_delivery_minutes, active, owner_id, created_at
		FROM restaurants
		WHERE lower(city) = lower($1) AND active
		ORDER BY name
	`, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []restaurants.Restaurant
	for rows.Next() {
		var rest restaurants.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.Name, &rest.Description, &rest.CuisineType, &rest.Address,
			&rest.City, &rest.Phone, &rest.EstimatedDeliveryMinutes, &rest.Active,
			&rest.OwnerID, &rest.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

// AddMenuItem inserts a menu item, available by default.
func (r *RestaurantsRepo) AddMenuItem(ctx context.Context, item *restaurants.MenuItem) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO menu_items (restaurant_id, name, description, price, category, image_url, available)
		VALUES ($1, $2, $3, $4::numeric/100, $5, $6, true)
		RETURNING id, available`,
		item.RestaurantID, item.Name, item.Description, int64(item.Price),
		item.Category, item.ImageURL,
	).Scan(&item.ID, &item.Available)
}

// GetMenuItem retrieves one menu item.
func (r *RestaurantsRepo) GetMenuItem(ctx context.Context, id int64) (*restaurants.MenuItem, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var item restaurants.MenuItem
	err = tx.QueryRow(ctx, `
		SELECT id, restaurant_id, name, description, (price*100)::bigint, category, image_url, available
		FROM menu_items
		WHERE id = $1
	`, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description,
		&item.Price, &item.Category, &item.ImageURL, &item.Available,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListMenu returns the available items of a restaurant.
func (r *RestaurantsRepo) ListMenu(ctx context.Context, restaurantID int64) ([]restaurants.MenuItem, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, restaurant_id, name, description, (price*100)::bigint, category, image_url, available
		FROM menu_items
		WHERE restaurant_id = $1 AND available
		ORDER BY category, name
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []restaurants.MenuItem
	for rows.Next() {
		var item restaurants.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Description,
			&item.Price, &item.Category, &item.ImageURL, &item.Available,
		); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
