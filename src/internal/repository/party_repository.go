package repository

import (
	"context"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type PartyRepository struct {
	DB mysql.DBInterface
}

func NewPartyRepository(db mysql.DBInterface) *PartyRepository {
	return &PartyRepository{
		DB: db,
	}
}

func (r *PartyRepository) FindRestaurant(ctx context.Context, id string) (*entity.Restaurant, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var restaurant entity.Restaurant
	query := `SELECT id, name, phone, address, lat, lng FROM restaurants WHERE id = ?`
	if err = db.GetContext(ctx, &restaurant, query, id); err != nil {
		return nil, err
	}

	return &restaurant, nil
}

func (r *PartyRepository) FindCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var customer entity.Customer
	query := `SELECT id, full_name, phone FROM customers WHERE id = ?`
	if err = db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, err
	}

	return &customer, nil
}
