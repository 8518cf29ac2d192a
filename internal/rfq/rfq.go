package rfq

import (
	"errors"
	"time"

	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// RFQ is a request-for-quotation raised by a property manager and worked
// by the contractor side. It moves through the same review ladder as
// quotations.
type RFQ struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	SequenceNumber  string          `json:"sequence_number" gorm:"column:sequence_number;uniqueIndex;not null"`
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description" gorm:"column:description"`
	PropertyRef     string          `json:"property_ref" gorm:"column:property_ref"`
	Status          workflow.Status `json:"status" gorm:"column:status;default:DRAFT"`
	RejectionReason *string         `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	RequestedByID   int64           `json:"requested_by_id" gorm:"column:requested_by_id;not null"`
	AssignedToID    *int64          `json:"assigned_to_id,omitempty" gorm:"column:assigned_to_id"`
	CreatedAt       time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (RFQ) TableName() string {
	return "rfqs"
}

// SequencePrefix prefixes RFQ document numbers (RFQ-00001).
const SequencePrefix = "RFQ"

var ErrRFQNotFound = errors.New("rfq not found")

// Reviewable reduces the RFQ to the snapshot the workflow engine
// operates on.
func (r *RFQ) Reviewable() workflow.Reviewable {
	return workflow.Reviewable{
		ID:              r.ID,
		Kind:            "rfq",
		SequenceNumber:  r.SequenceNumber,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		AssignedToID:    r.AssignedToID,
	}
}
