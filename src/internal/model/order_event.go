package model

import (
	"time"
)

// Event is anything a typed messaging producer can publish.
type Event interface {
	GetId() string
}

// OrderSnapshot is the wire mirror of an order row for the change feed.
type OrderSnapshot struct {
	ID               string     `json:"id"`
	OrderNumber      string     `json:"order_number"`
	Status           string     `json:"status"`
	RestaurantID     string     `json:"restaurant_id"`
	CustomerID       string     `json:"customer_id"`
	DriverID         *string    `json:"driver_id,omitempty"`
	DeliveryFee      float64    `json:"delivery_fee"`
	FinalAmount      float64    `json:"final_amount"`
	DeliveryAddress  string     `json:"delivery_address"`
	DriverAssignedAt *time.Time `json:"driver_assigned_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// OrderChangeEvent carries the before/after row snapshots of one order
// UPDATE on the change feed, keyed by order id so one order's events keep
// their ordering within a partition.
type OrderChangeEvent struct {
	EventID    string         `json:"event_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Before     *OrderSnapshot `json:"before,omitempty"`
	After      *OrderSnapshot `json:"after"`
}

func (e *OrderChangeEvent) GetId() string {
	if e.After != nil {
		return e.After.ID
	}
	return e.EventID
}

// PushEvent is the fire-and-forget push display message. Device gateways
// consume it downstream; no delivery receipt comes back.
type PushEvent struct {
	ID            string           `json:"id"`
	RecipientRole string           `json:"recipient_role"`
	RecipientID   string           `json:"recipient_id"`
	Title         string           `json:"title"`
	Body          string           `json:"body"`
	Channel       string           `json:"channel"` // orders | system | messages
	Data          OrderDataPayload `json:"data"`
}

func (e *PushEvent) GetId() string {
	return e.ID
}
