package notification

import (
	"time"
)

// Recipient roles. Status changes notify the counterpart side of the
// review; salary payment requests alert admins.
const (
	RecipientArtisan    = "ARTISAN"
	RecipientContractor = "CONTRACTOR"
	RecipientAdmin      = "ADMIN"
)

const (
	KindStatusChanged         = "STATUS_CHANGED"
	KindPaymentRequestCreated = "PAYMENT_REQUEST_CREATED"
)

// Notification is a persisted in-app notification row. Delivery to
// external channels (email, push) is out of scope; consumers poll.
type Notification struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	RecipientRole string    `json:"recipient_role" gorm:"column:recipient_role;not null"`
	Kind          string    `json:"kind" gorm:"column:kind;not null"`
	Subject       string    `json:"subject" gorm:"column:subject;not null"`
	Body          string    `json:"body" gorm:"column:body"`
	DocumentKind  string    `json:"document_kind,omitempty" gorm:"column:document_kind"`
	DocumentID    int64     `json:"document_id,omitempty" gorm:"column:document_id"`
	ReadAt        *time.Time `json:"read_at,omitempty" gorm:"column:read_at"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
