package quotation

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/contractor-management/internal/auth"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// Repository defines the data access methods for quotations. Its
// UpdateStatus also satisfies workflow.Store, so the repository doubles
// as the engine's persistence collaborator.
type Repository interface {
	Create(ctx context.Context, q *Quotation) error
	GetByID(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, limit, offset int) ([]*Quotation, error)
	ListByAssignee(ctx context.Context, artisanID int64, limit, offset int) ([]*Quotation, error)
	UpdateStatus(ctx context.Context, id int64, from, to workflow.Status, rejectionReason *string) error
	NextSequenceNumber(ctx context.Context, prefix string) (string, error)
}

// Service handles quotation business logic. Status changes are delegated
// to the workflow engine; everything else is plain CRUD with role-aware
// access.
type Service struct {
	repo   Repository
	engine *workflow.Engine
	logger *slog.Logger
}

func NewService(repo Repository, engine *workflow.Engine, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		logger: logger,
	}
}

// CreateQuotation creates a new quotation in DRAFT with the next
// QUO-XXXXX number.
func (s *Service) CreateQuotation(ctx context.Context, user *auth.User, dto CreateQuotationDTO) (*Quotation, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("quotation validation failed", "error", err, "user_id", user.ID)
		return nil, err
	}

	sequenceNumber, err := s.repo.NextSequenceNumber(ctx, SequencePrefix)
	if err != nil {
		s.logger.Error("failed to mint quotation number", "error", err)
		return nil, err
	}

	q := &Quotation{
		SequenceNumber: sequenceNumber,
		Title:          dto.Title,
		CustomerName:   dto.CustomerName,
		PropertyRef:    dto.PropertyRef,
		Status:         workflow.StatusDraft,
		AssignedToID:   dto.AssignedToID,
		CreatedByID:    user.ID,
		SubtotalAmount: dto.SubtotalAmount,
		TaxAmount:      dto.TaxAmount,
		TotalAmount:    dto.TotalAmount,
		LaborCost:      dto.LaborCost,
		MaterialCost:   dto.MaterialCost,
	}

	if err := s.repo.Create(ctx, q); err != nil {
		s.logger.Error("failed to create quotation", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("quotation created",
		"quotation_id", q.ID,
		"sequence_number", q.SequenceNumber,
		"user_id", user.ID,
		"total", q.TotalAmount)

	return q, nil
}

// GetQuotation retrieves a quotation with access control: managers see
// everything, artisans only what is assigned to them or created by them.
func (s *Service) GetQuotation(ctx context.Context, user *auth.User, id int64) (*Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canAccess(user, q) {
		s.logger.Warn("unauthorized access to quotation",
			"quotation_id", id,
			"user_id", user.ID,
			"role", user.Role)
		return nil, ErrUnauthorizedAccess
	}

	return q, nil
}

// ListQuotations returns quotations visible to the user.
func (s *Service) ListQuotations(ctx context.Context, user *auth.User, limit, offset int) ([]*Quotation, error) {
	if user.IsManager() {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.ListByAssignee(ctx, user.ID, limit, offset)
}

// Transition moves the quotation to the target status on behalf of the
// user's role. Target REJECTED requires a non-blank reason.
func (s *Service) Transition(ctx context.Context, user *auth.User, id int64, target workflow.Status, reason string) (*Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canAccess(user, q) {
		return nil, ErrUnauthorizedAccess
	}

	updated, err := s.engine.ApplyTransition(ctx, q.Reviewable(), target, user.Role, reason)
	if err != nil {
		return nil, err
	}

	q.Status = updated.Status
	if updated.RejectionReason != nil {
		q.RejectionReason = updated.RejectionReason
	}
	return q, nil
}

// Reject is the dedicated rejection entry point; the reason requirement
// lives in the engine.
func (s *Service) Reject(ctx context.Context, user *auth.User, id int64, reason string) (*Quotation, error) {
	return s.Transition(ctx, user, id, workflow.StatusRejected, reason)
}

func (s *Service) canAccess(user *auth.User, q *Quotation) bool {
	if user.IsManager() {
		return true
	}
	if q.CreatedByID == user.ID {
		return true
	}
	return q.AssignedToID != nil && *q.AssignedToID == user.ID
}
