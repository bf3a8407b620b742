package repository

import (
	"context"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"
)

type DriverRepository struct {
	DB mysql.DBInterface
}

func NewDriverRepository(db mysql.DBInterface) *DriverRepository {
	return &DriverRepository{
		DB: db,
	}
}

func (r *DriverRepository) FindByID(ctx context.Context, id string) (*entity.Driver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var driver entity.Driver
	query := `
		SELECT id, full_name, online, availability, last_lat, last_lng,
			rating, total_deliveries, updated_at
		FROM drivers
		WHERE id = ?
	`

	if err = db.GetContext(ctx, &driver, query, id); err != nil {
		return nil, err
	}

	return &driver, nil
}

// FindOnlineAvailable returns every dispatch candidate. No ranking is
// applied; distance is computed downstream for display only.
func (r *DriverRepository) FindOnlineAvailable(ctx context.Context) ([]entity.AvailableDriver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var drivers []entity.AvailableDriver
	query := `
		SELECT id AS driver_id, full_name, last_lat, last_lng
		FROM drivers
		WHERE online = 1
		AND availability = 'available'
	`

	if err = db.SelectContext(ctx, &drivers, query); err != nil {
		return nil, err
	}

	return drivers, nil
}

func (r *DriverRepository) SetAvailability(ctx context.Context, driverID string, availability entity.DriverAvailability) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE drivers SET availability = ?, updated_at = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, availability, time.Now(), driverID)
	return err
}
