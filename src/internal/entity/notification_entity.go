package entity

import "time"

// RecipientRole discriminates the single notifications table. The previous
// schema kept three structurally identical per-role tables; per-role access
// is preserved through the repository accessors.
type RecipientRole string

const (
	RoleCustomer   RecipientRole = "customer"
	RoleRestaurant RecipientRole = "restaurant"
	RoleDriver     RecipientRole = "driver"
)

type NotificationType string

const (
	NotificationOrder      NotificationType = "order"
	NotificationEarning    NotificationType = "earning"
	NotificationSystem     NotificationType = "system"
	NotificationRating     NotificationType = "rating"
	NotificationMessage    NotificationType = "message"
	NotificationDelivery   NotificationType = "delivery"
	NotificationAssignment NotificationType = "assignment"
)

// Notification is one mailbox row: the durable record of what was
// communicated, independent of whether a push was also shown.
type Notification struct {
	ID            string           `db:"id"`
	RecipientID   string           `db:"recipient_id"`
	RecipientRole RecipientRole    `db:"recipient_role"`
	Title         string           `db:"title"`
	Body          string           `db:"body"`
	Type          NotificationType `db:"type"`
	Data          []byte           `db:"data"` // JSON payload
	Read          bool             `db:"read"`
	CreatedAt     time.Time        `db:"created_at"`
	ReadAt        *time.Time       `db:"read_at"`
}
