package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/contractor-management/internal/core/datamodel/sequence"
	"github.com/frahmantamala/contractor-management/internal/payroll"
	"github.com/frahmantamala/contractor-management/internal/rfq"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// RFQRepository implements rfq.Repository using GORM.
type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) rfq.Repository {
	return &RFQRepository{db: db}
}

func (r *RFQRepository) Create(ctx context.Context, doc *rfq.RFQ) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *RFQRepository) GetByID(ctx context.Context, id int64) (*rfq.RFQ, error) {
	var doc rfq.RFQ
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rfq.ErrRFQNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *RFQRepository) List(ctx context.Context, limit, offset int) ([]*rfq.RFQ, error) {
	var rfqs []*rfq.RFQ
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rfqs).Error
	return rfqs, err
}

// UpdateStatus applies the transition only when the persisted status
// still equals from; zero affected rows is reported as a conflict.
func (r *RFQRepository) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status, rejectionReason *string) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = *rejectionReason
	}

	result := r.db.WithContext(ctx).
		Model(&rfq.RFQ{}).
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

func (r *RFQRepository) NextSequenceNumber(ctx context.Context, prefix string) (string, error) {
	value, err := sequence.Next(r.db.WithContext(ctx), prefix)
	if err != nil {
		return "", err
	}
	return payroll.FormatSequenceNumber(prefix, value), nil
}
