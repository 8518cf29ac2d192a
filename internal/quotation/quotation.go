package quotation

import (
	"errors"
	"time"

	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// Quotation is a contractor's priced offer for a job. Its status only
// changes through the workflow engine; monetary fields are computed by
// the pricing side and preserved across transitions.
type Quotation struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	SequenceNumber string          `json:"sequence_number" gorm:"column:sequence_number;uniqueIndex;not null"`
	Title          string          `json:"title" gorm:"not null"`
	CustomerName   string          `json:"customer_name" gorm:"column:customer_name"`
	PropertyRef    string          `json:"property_ref" gorm:"column:property_ref"`
	Status         workflow.Status `json:"status" gorm:"column:status;default:DRAFT"`
	// RejectionReason holds the most recent rejection reason. It is kept
	// after the document leaves REJECTED; the history is intentional.
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	AssignedToID    *int64     `json:"assigned_to_id,omitempty" gorm:"column:assigned_to_id"`
	CreatedByID     int64      `json:"created_by_id" gorm:"column:created_by_id;not null"`
	SubtotalAmount  int64      `json:"subtotal_amount" gorm:"column:subtotal_amount"`
	TaxAmount       int64      `json:"tax_amount" gorm:"column:tax_amount"`
	TotalAmount     int64      `json:"total_amount" gorm:"column:total_amount"`
	LaborCost       int64      `json:"labor_cost" gorm:"column:labor_cost"`
	MaterialCost    int64      `json:"material_cost" gorm:"column:material_cost"`
	SentAt          *time.Time `json:"sent_at,omitempty" gorm:"column:sent_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Quotation) TableName() string {
	return "quotations"
}

// SequencePrefix prefixes quotation document numbers (QUO-00001).
const SequencePrefix = "QUO"

// Domain errors
var (
	ErrQuotationNotFound  = errors.New("quotation not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to quotation")
)

// Reviewable reduces the quotation to the snapshot the workflow engine
// operates on.
func (q *Quotation) Reviewable() workflow.Reviewable {
	return workflow.Reviewable{
		ID:              q.ID,
		Kind:            "quotation",
		SequenceNumber:  q.SequenceNumber,
		Status:          q.Status,
		RejectionReason: q.RejectionReason,
		AssignedToID:    q.AssignedToID,
	}
}
