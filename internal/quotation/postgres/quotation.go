package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/contractor-management/internal/core/datamodel/sequence"
	"github.com/frahmantamala/contractor-management/internal/payroll"
	"github.com/frahmantamala/contractor-management/internal/quotation"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// QuotationRepository implements quotation.Repository using GORM.
type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) quotation.Repository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *quotation.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id int64) (*quotation.Quotation, error) {
	var q quotation.Quotation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quotation.ErrQuotationNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) List(ctx context.Context, limit, offset int) ([]*quotation.Quotation, error) {
	var quotations []*quotation.Quotation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quotations).Error
	return quotations, err
}

func (r *QuotationRepository) ListByAssignee(ctx context.Context, artisanID int64, limit, offset int) ([]*quotation.Quotation, error) {
	var quotations []*quotation.Quotation
	err := r.db.WithContext(ctx).
		Where("assigned_to_id = ? OR created_by_id = ?", artisanID, artisanID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quotations).Error
	return quotations, err
}

// UpdateStatus applies the transition only when the persisted status
// still equals from. Zero affected rows means another reviewer got there
// first; the engine surfaces that as a conflict rather than overwriting.
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status, rejectionReason *string) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = *rejectionReason
	}
	if to == workflow.StatusSentToCustomer {
		updates["sent_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&quotation.Quotation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return workflow.ErrStatusConflict
	}
	return nil
}

func (r *QuotationRepository) NextSequenceNumber(ctx context.Context, prefix string) (string, error) {
	value, err := sequence.Next(r.db.WithContext(ctx), prefix)
	if err != nil {
		return "", err
	}
	return payroll.FormatSequenceNumber(prefix, value), nil
}
