package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/contractor-management/internal/notification"
)

// NotificationRepository implements notification.Repository using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientRole string, limit, offset int) ([]*notification.Notification, error) {
	var notifications []*notification.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_role = ?", recipientRole).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}
