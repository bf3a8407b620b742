package repository

import (
	"context"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var order entity.Order
	query := `
		SELECT
			id, order_number, status, restaurant_id, customer_id, driver_id,
			subtotal, delivery_fee, tax, final_amount,
			delivery_address, delivery_lat, delivery_lng, special_instructions,
			created_at, driver_assigned_at, driver_accepted_at,
			estimated_delivery_time, updated_at
		FROM orders
		WHERE id = ?
	`

	if err = db.GetContext(ctx, &order, query, id); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) FindItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var items []entity.OrderItem
	query := `
		SELECT id, order_id, name, quantity, price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`

	if err = db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}

	return items, nil
}

// ClaimForDriver is the race-safe accept. The WHERE clause is the whole
// locking story: the first UPDATE to land wins, everyone else affects zero
// rows and must treat the order as already claimed.
func (r *OrderRepository) ClaimForDriver(ctx context.Context, orderID, driverID string, at time.Time) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE orders
		SET driver_id = ?,
			status = 'out_for_delivery',
			driver_assigned_at = ?,
			driver_accepted_at = ?,
			updated_at = ?
		WHERE id = ?
		AND status = 'ready'
		AND driver_id IS NULL
	`

	res, err := db.ExecContext(ctx, query, driverID, at, at, at, orderID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, status, time.Now(), orderID)
	return err
}
