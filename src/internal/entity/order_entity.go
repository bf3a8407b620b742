package entity

import "time"

type Order struct {
	ID                  string      `db:"id"`
	OrderNumber         string      `db:"order_number"`
	Status              OrderStatus `db:"status"`
	RestaurantID        string      `db:"restaurant_id"`
	CustomerID          string      `db:"customer_id"`
	DriverID            *string     `db:"driver_id"`
	Subtotal            float64     `db:"subtotal"`
	DeliveryFee         float64     `db:"delivery_fee"`
	Tax                 float64     `db:"tax"`
	FinalAmount         float64     `db:"final_amount"`
	DeliveryAddress     string      `db:"delivery_address"`
	DeliveryLat         *float64    `db:"delivery_lat"`
	DeliveryLng         *float64    `db:"delivery_lng"`
	SpecialInstructions *string     `db:"special_instructions"`
	CreatedAt           time.Time   `db:"created_at"`
	DriverAssignedAt    *time.Time  `db:"driver_assigned_at"`
	DriverAcceptedAt    *time.Time  `db:"driver_accepted_at"`
	EstimatedDelivery   *time.Time  `db:"estimated_delivery_time"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

type OrderItem struct {
	ID       string  `db:"id"`
	OrderID  string  `db:"order_id"`
	Name     string  `db:"name"`
	Quantity int     `db:"quantity"`
	Price    float64 `db:"price"`
}
