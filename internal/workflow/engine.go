package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/contractor-management/internal/core/events"
)

// Domain errors
var (
	ErrInvalidTransition      = errors.New("requested status transition is not allowed for this role")
	ErrMissingRejectionReason = errors.New("rejection reason is required when rejecting")
	ErrStatusConflict         = errors.New("document status changed since it was read")
)

// Reviewable is the snapshot of a workflow-managed document the engine
// operates on. Quotations and RFQs both reduce to this shape.
type Reviewable struct {
	ID              int64
	Kind            string
	SequenceNumber  string
	Status          Status
	RejectionReason *string
	AssignedToID    *int64
}

// Store persists a status transition. UpdateStatus must apply the change
// only when the document's persisted status still equals from, and
// return ErrStatusConflict otherwise. This is the optimistic guard that
// serializes concurrent reviewer actions on the same document.
type Store interface {
	UpdateStatus(ctx context.Context, id int64, from, to Status, rejectionReason *string) error
}

// EventPublisher fans out status-change events. Publish failures never
// roll back a transition.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Engine validates and applies status transitions for reviewable
// documents.
type Engine struct {
	store  Store
	events EventPublisher
	logger *slog.Logger
}

func NewEngine(store Store, publisher EventPublisher, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		events: publisher,
		logger: logger,
	}
}

// ApplyTransition moves doc into target on behalf of role. The reason is
// required (non-blank) exactly when target is REJECTED; it is persisted
// alongside the status and intentionally never cleared by later
// transitions. On success the updated snapshot is returned and a
// status-changed event is published.
func (e *Engine) ApplyTransition(ctx context.Context, doc Reviewable, target Status, role Role, reason string) (Reviewable, error) {
	if !target.IsValid() || !CanTransition(doc.Status, target, role) {
		e.logger.Warn("transition rejected",
			"kind", doc.Kind,
			"document_id", doc.ID,
			"from", doc.Status,
			"to", target,
			"role", role)
		return doc, ErrInvalidTransition
	}

	var rejectionReason *string
	if target == StatusRejected {
		trimmed := strings.TrimSpace(reason)
		if trimmed == "" {
			return doc, ErrMissingRejectionReason
		}
		rejectionReason = &trimmed
	}

	if err := e.store.UpdateStatus(ctx, doc.ID, doc.Status, target, rejectionReason); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			e.logger.Warn("concurrent status change detected",
				"kind", doc.Kind,
				"document_id", doc.ID,
				"expected_status", doc.Status,
				"target", target)
			return doc, ErrStatusConflict
		}
		e.logger.Error("failed to persist status transition",
			"error", err,
			"kind", doc.Kind,
			"document_id", doc.ID,
			"to", target)
		return doc, err
	}

	updated := doc
	previous := doc.Status
	updated.Status = target
	if rejectionReason != nil {
		updated.RejectionReason = rejectionReason
	}

	e.logger.Info("status transition applied",
		"kind", doc.Kind,
		"document_id", doc.ID,
		"sequence_number", doc.SequenceNumber,
		"from", previous,
		"to", target,
		"role", role)

	event := events.NewStatusChangedEvent(doc.Kind, doc.ID, doc.SequenceNumber, string(previous), string(target), reason)
	if err := e.events.Publish(ctx, event); err != nil {
		// notification fan-out is fire-and-forget
		e.logger.Error("failed to publish status change event",
			"error", err,
			"kind", doc.Kind,
			"document_id", doc.ID)
	}

	return updated, nil
}
