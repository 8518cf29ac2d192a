package rfq

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/contractor-management/internal/auth"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

// Repository defines the data access methods for RFQs. UpdateStatus
// satisfies workflow.Store so the repository plugs into the engine.
type Repository interface {
	Create(ctx context.Context, r *RFQ) error
	GetByID(ctx context.Context, id int64) (*RFQ, error)
	List(ctx context.Context, limit, offset int) ([]*RFQ, error)
	UpdateStatus(ctx context.Context, id int64, from, to workflow.Status, rejectionReason *string) error
	NextSequenceNumber(ctx context.Context, prefix string) (string, error)
}

// Service handles RFQ business logic. The workflow ladder is shared with
// quotations; only the entity differs.
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

// CreateRFQ creates a new RFQ in DRAFT with the next RFQ-XXXXX number.
func (s *Service) CreateRFQ(ctx context.Context, user *auth.User, dto CreateRFQDTO) (*RFQ, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("rfq validation failed", "error", err, "user_id", user.ID)
		return nil, err
	}

	sequenceNumber, err := s.repo.NextSequenceNumber(ctx, SequencePrefix)
	if err != nil {
		s.logger.Error("failed to mint rfq number", "error", err)
		return nil, err
	}

	r := &RFQ{
		SequenceNumber: sequenceNumber,
		Title:          dto.Title,
		Description:    dto.Description,
		PropertyRef:    dto.PropertyRef,
		Status:         workflow.StatusDraft,
		RequestedByID:  user.ID,
		AssignedToID:   dto.AssignedToID,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create rfq", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("rfq created",
		"rfq_id", r.ID,
		"sequence_number", r.SequenceNumber,
		"user_id", user.ID)

	return r, nil
}

func (s *Service) GetRFQ(ctx context.Context, id int64) (*RFQ, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListRFQs(ctx context.Context, limit, offset int) ([]*RFQ, error) {
	return s.repo.List(ctx, limit, offset)
}

// Transition moves the RFQ to the target status on behalf of the user's
// role. Target REJECTED requires a non-blank reason.
func (s *Service) Transition(ctx context.Context, user *auth.User, id int64, target workflow.Status, reason string) (*RFQ, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.engine.ApplyTransition(ctx, r.Reviewable(), target, user.Role, reason)
	if err != nil {
		return nil, err
	}

	r.Status = updated.Status
	if updated.RejectionReason != nil {
		r.RejectionReason = updated.RejectionReason
	}
	return r, nil
}
