package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/contractor-management/internal/core/events"
)

// Repository persists notification rows.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientRole string, limit, offset int) ([]*Notification, error)
}

// Service turns workflow and payroll events into persisted
// notifications. Every failure here is logged and swallowed; the
// triggering operation has already committed.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// RegisterSubscribers wires the service onto the event bus.
func (s *Service) RegisterSubscribers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeStatusChanged, s.HandleStatusChanged)
	bus.Subscribe(events.EventTypePaymentRequestCreated, s.HandlePaymentRequestCreated)
}

// HandleStatusChanged notifies the counterpart side of the review: a
// move into a review stage alerts the reviewers, a move out of one
// alerts the artisan working the document.
func (s *Service) HandleStatusChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.StatusChangedEvent)
	if !ok {
		s.logger.Warn("unexpected event payload for status change", "event_id", event.EventID())
		return nil
	}

	n := &Notification{
		RecipientRole: recipientForStatus(e.ToStatus),
		Kind:          KindStatusChanged,
		Subject:       fmt.Sprintf("%s %s is now %s", e.DocumentKind, e.SequenceNumber, e.ToStatus),
		Body:          statusChangeBody(e),
		DocumentKind:  e.DocumentKind,
		DocumentID:    e.DocumentID,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to persist status change notification",
			"error", err,
			"document_kind", e.DocumentKind,
			"document_id", e.DocumentID)
		return err
	}

	s.logger.Info("status change notification created",
		"document_kind", e.DocumentKind,
		"document_id", e.DocumentID,
		"recipient_role", n.RecipientRole,
		"to_status", e.ToStatus)
	return nil
}

// HandlePaymentRequestCreated alerts admins about a salary payment
// request minted by the daily sweep.
func (s *Service) HandlePaymentRequestCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentRequestCreatedEvent)
	if !ok {
		s.logger.Warn("unexpected event payload for payment request", "event_id", event.EventID())
		return nil
	}

	n := &Notification{
		RecipientRole: RecipientAdmin,
		Kind:          KindPaymentRequestCreated,
		Subject:       fmt.Sprintf("Salary payment request %s created", e.SequenceNumber),
		Body: fmt.Sprintf("Payment request %s for artisan %d over period %s (amount %d) is pending approval.",
			e.SequenceNumber, e.ArtisanID, e.PeriodKey, e.Amount),
		DocumentKind: "salary_payment_request",
		DocumentID:   e.PaymentRequestID,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to persist payment request notification",
			"error", err,
			"payment_request_id", e.PaymentRequestID)
		return err
	}

	s.logger.Info("payment request notification created",
		"payment_request_id", e.PaymentRequestID,
		"sequence_number", e.SequenceNumber)
	return nil
}

func (s *Service) ListForRecipient(ctx context.Context, recipientRole string, limit, offset int) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientRole, limit, offset)
}

// recipientForStatus picks who cares about the new status: review stages
// belong to the contractor side, everything else goes back to the
// artisan working the document.
func recipientForStatus(toStatus string) string {
	switch toStatus {
	case "PENDING_JUNIOR_MANAGER_REVIEW", "PENDING_SENIOR_MANAGER_REVIEW":
		return RecipientContractor
	default:
		return RecipientArtisan
	}
}

func statusChangeBody(e *events.StatusChangedEvent) string {
	if e.Reason != "" {
		return fmt.Sprintf("Status moved from %s to %s. Reason: %s", e.FromStatus, e.ToStatus, e.Reason)
	}
	return fmt.Sprintf("Status moved from %s to %s.", e.FromStatus, e.ToStatus)
}
