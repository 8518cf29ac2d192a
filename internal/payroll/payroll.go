package payroll

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateRequest is returned when a payment request for the same
// (artisan, period, source) already exists. The unique constraint backs
// the sweep's read-then-write idempotency check against overlapping
// invocations.
var ErrDuplicateRequest = errors.New("payment request already exists for this period")

// Employee is the subset of the employee record the salary scheduler
// cares about. An employee is on monthly payroll when both MonthlySalary
// and MonthlyPaymentDay are set.
type Employee struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"not null"`
	Email             string     `json:"email" gorm:"uniqueIndex;not null"`
	MonthlySalary     *int64     `json:"monthly_salary,omitempty" gorm:"column:monthly_salary"`
	MonthlyPaymentDay *int       `json:"monthly_payment_day,omitempty" gorm:"column:monthly_payment_day"`
	IsActive          bool       `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// OnMonthlyPayroll reports whether the scheduler should consider this
// employee at all.
func (e *Employee) OnMonthlyPayroll() bool {
	return e.MonthlySalary != nil && e.MonthlyPaymentDay != nil
}

// SalaryPaymentRequest is a payment request minted by the monthly sweep.
// It enters the separate payment-approval workflow in PENDING status.
type SalaryPaymentRequest struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	SequenceNumber   string    `json:"sequence_number" gorm:"column:sequence_number;uniqueIndex;not null"`
	ArtisanID        int64     `json:"artisan_id" gorm:"column:artisan_id;not null"`
	CalculatedAmount int64     `json:"calculated_amount" gorm:"column:calculated_amount;not null"`
	Status           string    `json:"status" gorm:"column:status;default:PENDING"`
	Notes            string    `json:"notes" gorm:"column:notes"`
	SourceType       string    `json:"source_type" gorm:"column:source_type;not null"`
	PeriodKey        string    `json:"period_key" gorm:"column:period_key;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (SalaryPaymentRequest) TableName() string {
	return "salary_payment_requests"
}

// Payment request statuses. APPROVED and PAID are reached through the
// payment-approval workflow, not the sweep.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusApproved = "APPROVED"
	PaymentStatusPaid     = "PAID"
)

const (
	// SourceTypeMonthlySalary marks requests minted by the sweep. The
	// unique constraint on (artisan_id, period_key, source_type) is what
	// makes the sweep idempotent per employee per month.
	SourceTypeMonthlySalary = "MONTHLY_SALARY"

	// SalaryNotesMarker is embedded verbatim in every sweep-created
	// request. Kept for audit trails and for operators grepping notes;
	// the structured period key is the load-bearing idempotency check.
	SalaryNotesMarker = "Automated monthly salary payment"

	// PaymentSequencePrefix prefixes the global payment request sequence.
	PaymentSequencePrefix = "PAY"
)

// PeriodKeyFor returns the calendar-month key (YYYY-MM) a date falls in.
func PeriodKeyFor(t time.Time) string {
	return t.Format("2006-01")
}

// FormatSequenceNumber renders a sequence value as PREFIX-00001.
func FormatSequenceNumber(prefix string, value int64) string {
	return fmt.Sprintf("%s-%05d", prefix, value)
}

// SalaryNotes builds the audit notes for a sweep-created request. The
// marker substring always appears first.
func SalaryNotes(today time.Time, configuredDay int) string {
	return fmt.Sprintf("%s for %s %d (configured day %d)",
		SalaryNotesMarker, today.Month().String(), today.Year(), configuredDay)
}

// LastDayOfMonth returns the number of days in the month of t.
func LastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// NextSweepTime returns the next occurrence of the configured sweep hour:
// today at that hour if it is still ahead of now, otherwise tomorrow.
func NextSweepTime(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
