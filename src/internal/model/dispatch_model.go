package model

import "time"

type BroadcastOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type BroadcastOrderResponse struct {
	Dispatched      bool `json:"dispatched"`
	DriversNotified int  `json:"driversNotified"`
}

type AcceptOrderRequest struct {
	OrderID  string `json:"orderId" validate:"required"`
	DriverID string `json:"driverId" validate:"required"`
}

type AcceptOrderResponse struct {
	OrderID          string    `json:"orderId"`
	DriverID         string    `json:"driverId"`
	Status           string    `json:"status"`
	DriverAcceptedAt time.Time `json:"driverAcceptedAt"`
}

// AvailableOrderBroadcast is the computed per-driver view of a ready order.
// Distance and ETA stay nil when the driver has never reported a position;
// they are omitted, not zeroed.
type AvailableOrderBroadcast struct {
	OrderID           string   `json:"orderId"`
	OrderNumber       string   `json:"orderNumber"`
	RestaurantName    string   `json:"restaurantName"`
	RestaurantAddress string   `json:"restaurantAddress"`
	ItemCount         int      `json:"itemCount"`
	DeliveryFee       float64  `json:"deliveryFee"`
	EstimatedEarnings float64  `json:"estimatedEarnings"`
	DistanceKm        *float64 `json:"distanceKm,omitempty"`
	EstimatedMinutes  *int     `json:"estimatedMinutes,omitempty"`
	DeliveryAddress   string   `json:"deliveryAddress"`
}
