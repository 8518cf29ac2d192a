package payroll

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/contractor-management/internal/core/events"
)

// Clock supplies "today" to the sweep so tests can pin month boundaries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock that always reports t. Used by tests and by
// the scheduler CLI's --date override.
func FixedClock(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Repository defines the data access the sweep needs.
type Repository interface {
	ActiveSalaryEmployees(ctx context.Context) ([]*Employee, error)
	HasRequestForPeriod(ctx context.Context, artisanID int64, periodKey, sourceType string) (bool, error)
	CreatePaymentRequest(ctx context.Context, req *SalaryPaymentRequest) error
	NextSequenceNumber(ctx context.Context, prefix string) (string, error)
}

// EventPublisher fans out the admin alert for each created request.
// Publish failures never fail the sweep.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SweepFailure records one employee whose payment request could not be
// created. It never aborts the sweep.
type SweepFailure struct {
	ArtisanID int64
	Err       error
}

// SweepResult summarises one daily sweep.
type SweepResult struct {
	Date     time.Time
	Created  []*SalaryPaymentRequest
	Skipped  int
	Failures []SweepFailure
}

// Scheduler runs the once-daily salary sweep. The caller (cron, CLI)
// owns the cadence; the scheduler only encodes what should happen when
// invoked today.
type Scheduler struct {
	repo   Repository
	events EventPublisher
	clock  Clock
	logger *slog.Logger
}

func NewScheduler(repo Repository, publisher EventPublisher, clock Clock, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		repo:   repo,
		events: publisher,
		clock:  clock,
		logger: logger,
	}
}

// RunDailySweep creates a PENDING payment request for every employee
// whose configured payment day falls due today, at most once per
// calendar month per employee. On the last day of a month, employees
// configured for a day past the month's end roll forward and are paid
// today instead of being skipped. Each employee is an independent unit
// of work: a failure is recorded and the sweep continues.
func (s *Scheduler) RunDailySweep(ctx context.Context) (*SweepResult, error) {
	today := s.clock.Now()
	day := today.Day()
	lastDay := LastDayOfMonth(today)
	isLastDay := day == lastDay
	periodKey := PeriodKeyFor(today)

	result := &SweepResult{Date: today}

	employees, err := s.repo.ActiveSalaryEmployees(ctx)
	if err != nil {
		s.logger.Error("failed to load salary employees", "error", err)
		return nil, err
	}

	s.logger.Info("starting daily salary sweep",
		"date", today.Format("2006-01-02"),
		"day", day,
		"last_day_of_month", lastDay,
		"employees", len(employees))

	for _, employee := range employees {
		if !employee.OnMonthlyPayroll() {
			continue
		}

		paymentDay := *employee.MonthlyPaymentDay
		due := paymentDay == day || (isLastDay && paymentDay > lastDay)
		if !due {
			continue
		}

		created, err := s.processEmployee(ctx, employee, today, periodKey)
		if err != nil {
			s.logger.Error("salary payment creation failed, continuing sweep",
				"error", err,
				"artisan_id", employee.ID)
			result.Failures = append(result.Failures, SweepFailure{ArtisanID: employee.ID, Err: err})
			continue
		}
		if created == nil {
			result.Skipped++
			continue
		}
		result.Created = append(result.Created, created)
	}

	s.logger.Info("daily salary sweep finished",
		"date", today.Format("2006-01-02"),
		"created", len(result.Created),
		"skipped", result.Skipped,
		"failed", len(result.Failures))

	return result, nil
}

// processEmployee creates this month's payment request for one employee,
// or returns (nil, nil) when one already exists.
func (s *Scheduler) processEmployee(ctx context.Context, employee *Employee, today time.Time, periodKey string) (*SalaryPaymentRequest, error) {
	exists, err := s.repo.HasRequestForPeriod(ctx, employee.ID, periodKey, SourceTypeMonthlySalary)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Info("salary already requested this month, skipping",
			"artisan_id", employee.ID,
			"period_key", periodKey)
		return nil, nil
	}

	sequenceNumber, err := s.repo.NextSequenceNumber(ctx, PaymentSequencePrefix)
	if err != nil {
		return nil, err
	}

	request := &SalaryPaymentRequest{
		SequenceNumber:   sequenceNumber,
		ArtisanID:        employee.ID,
		CalculatedAmount: *employee.MonthlySalary,
		Status:           PaymentStatusPending,
		Notes:            SalaryNotes(today, *employee.MonthlyPaymentDay),
		SourceType:       SourceTypeMonthlySalary,
		PeriodKey:        periodKey,
	}

	if err := s.repo.CreatePaymentRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("salary payment request created",
		"artisan_id", employee.ID,
		"sequence_number", request.SequenceNumber,
		"amount", request.CalculatedAmount,
		"period_key", periodKey)

	event := events.NewPaymentRequestCreatedEvent(request.ID, request.SequenceNumber, request.ArtisanID, request.CalculatedAmount, periodKey)
	if err := s.events.Publish(ctx, event); err != nil {
		// admin alert is fire-and-forget
		s.logger.Error("failed to publish payment request event",
			"error", err,
			"sequence_number", request.SequenceNumber)
	}

	return request, nil
}
