package model

import (
	"time"

	"dispatch-service/src/internal/entity"
)

type SendStatusNotificationRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type SendToUserRequest struct {
	Role   string           `json:"role" validate:"required,oneof=customer restaurant driver"`
	UserID string           `json:"userId" validate:"required"`
	Title  string           `json:"title" validate:"required"`
	Body   string           `json:"body" validate:"required"`
	Type   string           `json:"type" validate:"required"`
	Data   OrderDataPayload `json:"data"`
}

type MarkReadRequest struct {
	NotificationID string `json:"notificationId" validate:"required"`
	RecipientID    string `json:"recipientId" validate:"required"`
}

type ListNotificationsRequest struct {
	Role        string `json:"role" validate:"required,oneof=customer restaurant driver"`
	RecipientID string `json:"recipientId" validate:"required"`
	UnreadOnly  bool   `json:"unreadOnly"`
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Type      string     `json:"type"`
	Data      any        `json:"data,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

// OrderDataPayload is the shared structured payload attached to every
// order-related mailbox row and push.
type OrderDataPayload struct {
	OrderID        string  `json:"orderId,omitempty"`
	OrderNumber    string  `json:"orderNumber,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	RestaurantName string  `json:"restaurantName,omitempty"`
	CustomerName   string  `json:"customerName,omitempty"`
	Action         string  `json:"action,omitempty"`
}

// NotificationContext is the normalized enrichment result the orchestrator
// builds once per status change. Peripheral lookups degrade to zero values;
// only the order itself is mandatory.
type NotificationContext struct {
	Order            *entity.Order
	OrderNumber      string
	CustomerName     string
	RestaurantName   string
	RestaurantPhone  string
	DriverName       string
	ItemNames        []string
	ItemCount        int
	EstimatedMinutes *int
}
