package repository

import (
	"context"
	"time"

	"dispatch-service/src/internal/entity"
	"dispatch-service/src/pkg/databases/mysql"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	DB mysql.DBInterface
}

func NewNotificationRepository(db mysql.DBInterface) *NotificationRepository {
	return &NotificationRepository{
		DB: db,
	}
}

func (r *NotificationRepository) insert(ctx context.Context, role entity.RecipientRole, n *entity.Notification) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.RecipientRole = role

	query := `
		INSERT INTO notifications
			(id, recipient_id, recipient_role, title, body, type, data, ` + "`read`" + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
	`

	_, err = db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.RecipientRole, n.Title, n.Body, n.Type, n.Data, n.CreatedAt)
	return err
}

func (r *NotificationRepository) InsertForCustomer(ctx context.Context, n *entity.Notification) error {
	return r.insert(ctx, entity.RoleCustomer, n)
}

func (r *NotificationRepository) InsertForRestaurant(ctx context.Context, n *entity.Notification) error {
	return r.insert(ctx, entity.RoleRestaurant, n)
}

func (r *NotificationRepository) InsertForDriver(ctx context.Context, n *entity.Notification) error {
	return r.insert(ctx, entity.RoleDriver, n)
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, role entity.RecipientRole, recipientID string, unreadOnly bool) ([]entity.Notification, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, recipient_id, recipient_role, title, body, type, data,
			` + "`read`" + `, created_at, read_at
		FROM notifications
		WHERE recipient_role = ? AND recipient_id = ?
	`
	if unreadOnly {
		query += " AND `read` = 0"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	var notifications []entity.Notification
	if err = db.SelectContext(ctx, &notifications, query, role, recipientID); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead stamps read_at once; the recipient id in the WHERE clause keeps
// one recipient from acking another's mailbox row.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	query := `
		UPDATE notifications
		SET ` + "`read`" + ` = 1, read_at = ?
		WHERE id = ? AND recipient_id = ? AND ` + "`read`" + ` = 0
	`

	res, err := db.ExecContext(ctx, query, time.Now(), notificationID, recipientID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
