package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/contractor-management/internal/core/datamodel/sequence"
	"github.com/frahmantamala/contractor-management/internal/payroll"
	"gorm.io/gorm"
)

// PayrollRepository implements payroll.Repository using GORM.
type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.Repository {
	return &PayrollRepository{db: db}
}

// ActiveSalaryEmployees returns active employees with a complete monthly
// salary configuration.
func (r *PayrollRepository) ActiveSalaryEmployees(ctx context.Context) ([]*payroll.Employee, error) {
	var employees []*payroll.Employee
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Where("monthly_salary IS NOT NULL").
		Where("monthly_payment_day IS NOT NULL").
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}

// HasRequestForPeriod checks the structured idempotency key.
func (r *PayrollRepository) HasRequestForPeriod(ctx context.Context, artisanID int64, periodKey, sourceType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&payroll.SalaryPaymentRequest{}).
		Where("artisan_id = ? AND period_key = ? AND source_type = ?", artisanID, periodKey, sourceType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePaymentRequest inserts the request. A unique-constraint hit on
// (artisan_id, period_key, source_type) maps to ErrDuplicateRequest so a
// racing second sweep fails cleanly instead of double-paying.
func (r *PayrollRepository) CreatePaymentRequest(ctx context.Context, req *payroll.SalaryPaymentRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return payroll.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

// NextSequenceNumber mints the next PAY-XXXXX number from the shared
// atomic counter.
func (r *PayrollRepository) NextSequenceNumber(ctx context.Context, prefix string) (string, error) {
	value, err := sequence.Next(r.db.WithContext(ctx), prefix)
	if err != nil {
		return "", err
	}
	return payroll.FormatSequenceNumber(prefix, value), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
