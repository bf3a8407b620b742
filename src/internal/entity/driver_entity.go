package entity

import "time"

type Driver struct {
	ID              string             `db:"id"`
	FullName        string             `db:"full_name"`
	Online          bool               `db:"online"`
	Availability    DriverAvailability `db:"availability"`
	LastLat         *float64           `db:"last_lat"`
	LastLng         *float64           `db:"last_lng"`
	Rating          float64            `db:"rating"`
	TotalDeliveries int                `db:"total_deliveries"`
	UpdatedAt       time.Time          `db:"updated_at"`
}

// AvailableDriver is the dispatch candidate row: online, available, with the
// last known position if the device ever reported one.
type AvailableDriver struct {
	DriverID string   `db:"driver_id"`
	FullName string   `db:"full_name"`
	LastLat  *float64 `db:"last_lat"`
	LastLng  *float64 `db:"last_lng"`
}
