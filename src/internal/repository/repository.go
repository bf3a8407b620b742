package repository

import (
	"context"
	"time"

	"dispatch-service/src/internal/entity"
)

// OrderStore is the order table contract. ClaimForDriver is the only write
// the dispatch correctness depends on.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindItems(ctx context.Context, orderID string) ([]entity.OrderItem, error)
	// ClaimForDriver performs the conditional claim: it only takes effect if
	// the order is still ready with no driver, and reports whether this
	// caller won via the affected-row count.
	ClaimForDriver(ctx context.Context, orderID, driverID string, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, orderID string, status entity.OrderStatus) error
}

// DriverDirectory is read access to driver presence plus the availability
// flip on accept.
type DriverDirectory interface {
	FindByID(ctx context.Context, id string) (*entity.Driver, error)
	FindOnlineAvailable(ctx context.Context) ([]entity.AvailableDriver, error)
	SetAvailability(ctx context.Context, driverID string, availability entity.DriverAvailability) error
}

// MailboxStore persists addressed messages. One table, role discriminant
// column, per-role accessors preserving the old three-table contract.
type MailboxStore interface {
	InsertForCustomer(ctx context.Context, n *entity.Notification) error
	InsertForRestaurant(ctx context.Context, n *entity.Notification) error
	InsertForDriver(ctx context.Context, n *entity.Notification) error
	FindByRecipient(ctx context.Context, role entity.RecipientRole, recipientID string, unreadOnly bool) ([]entity.Notification, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) (bool, error)
}

// PartyStore resolves the other order stakeholders for enrichment.
type PartyStore interface {
	FindRestaurant(ctx context.Context, id string) (*entity.Restaurant, error)
	FindCustomer(ctx context.Context, id string) (*entity.Customer, error)
}
