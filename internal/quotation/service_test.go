package quotation_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/contractor-management/internal/auth"
	coreEvents "github.com/frahmantamala/contractor-management/internal/core/events"
	"github.com/frahmantamala/contractor-management/internal/quotation"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

func TestQuotation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quotation Suite")
}

type mockRepository struct {
	quotations   map[int64]*quotation.Quotation
	nextID       int64
	nextSequence int64

	createErr      error
	getErr         error
	updateErr      error
	sequenceErr    error
	updatedFrom    workflow.Status
	updatedTo      workflow.Status
	updatedReason  *string
	updateStatusID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{quotations: make(map[int64]*quotation.Quotation)}
}

func (m *mockRepository) Create(ctx context.Context, q *quotation.Quotation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	q.ID = m.nextID
	m.quotations[q.ID] = q
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*quotation.Quotation, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	q, ok := m.quotations[id]
	if !ok {
		return nil, quotation.ErrQuotationNotFound
	}
	copied := *q
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]*quotation.Quotation, error) {
	result := make([]*quotation.Quotation, 0, len(m.quotations))
	for _, q := range m.quotations {
		result = append(result, q)
	}
	return result, nil
}

func (m *mockRepository) ListByAssignee(ctx context.Context, artisanID int64, limit, offset int) ([]*quotation.Quotation, error) {
	var result []*quotation.Quotation
	for _, q := range m.quotations {
		if q.CreatedByID == artisanID || (q.AssignedToID != nil && *q.AssignedToID == artisanID) {
			result = append(result, q)
		}
	}
	return result, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, from, to workflow.Status, rejectionReason *string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	q, ok := m.quotations[id]
	if !ok || q.Status != from {
		return workflow.ErrStatusConflict
	}
	m.updateStatusID = id
	m.updatedFrom = from
	m.updatedTo = to
	m.updatedReason = rejectionReason
	q.Status = to
	if rejectionReason != nil {
		q.RejectionReason = rejectionReason
	}
	return nil
}

func (m *mockRepository) NextSequenceNumber(ctx context.Context, prefix string) (string, error) {
	if m.sequenceErr != nil {
		return "", m.sequenceErr
	}
	m.nextSequence++
	return quotation.SequencePrefix + "-00001", nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event coreEvents.Event) error { return nil }

var _ = Describe("Quotation Service", func() {
	var (
		repo    *mockRepository
		service *quotation.Service
		ctx     context.Context

		artisan *auth.User
		senior  *auth.User
	)

	int64Ptr := func(v int64) *int64 { return &v }

	seed := func(status workflow.Status, createdBy int64, assignedTo *int64) *quotation.Quotation {
		q := &quotation.Quotation{
			SequenceNumber: "QUO-00042",
			Title:          "Roof repair",
			Status:         status,
			CreatedByID:    createdBy,
			AssignedToID:   assignedTo,
			TotalAmount:    50000,
		}
		repo.nextID++
		q.ID = repo.nextID
		repo.quotations[q.ID] = q
		return q
	}

	BeforeEach(func() {
		repo = newMockRepository()
		logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		engine := workflow.NewEngine(repo, noopPublisher{}, logger)
		service = quotation.NewService(repo, engine, logger)
		ctx = context.Background()

		artisan = &auth.User{ID: 5, Email: "artisan@mail.com", Role: workflow.RoleArtisan}
		senior = &auth.User{ID: 2, Email: "senior@mail.com", Role: workflow.RoleSeniorManager}
	})

	Describe("CreateQuotation", func() {
		It("should create a DRAFT quotation with a minted number", func() {
			dto := quotation.CreateQuotationDTO{
				Title:          "Kitchen remodel",
				CustomerName:   "de Vries",
				SubtotalAmount: 100000,
				TaxAmount:      21000,
				TotalAmount:    121000,
			}

			q, err := service.CreateQuotation(ctx, artisan, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(q.Status).To(Equal(workflow.StatusDraft))
			Expect(q.SequenceNumber).To(Equal("QUO-00001"))
			Expect(q.CreatedByID).To(Equal(artisan.ID))
		})

		It("should reject an invalid payload", func() {
			dto := quotation.CreateQuotationDTO{Title: ""}

			_, err := service.CreateQuotation(ctx, artisan, dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.quotations).To(BeEmpty())
		})

		It("should propagate sequence minting failures", func() {
			repo.sequenceErr = errors.New("sequences table unavailable")
			dto := quotation.CreateQuotationDTO{Title: "Kitchen remodel", TotalAmount: 1000}

			_, err := service.CreateQuotation(ctx, artisan, dto)

			Expect(err).To(MatchError(repo.sequenceErr))
		})
	})

	Describe("GetQuotation", func() {
		It("should let managers read any quotation", func() {
			q := seed(workflow.StatusDraft, 99, nil)

			found, err := service.GetQuotation(ctx, senior, q.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(q.ID))
		})

		It("should let artisans read quotations assigned to them", func() {
			q := seed(workflow.StatusInProgress, 99, int64Ptr(artisan.ID))

			found, err := service.GetQuotation(ctx, artisan, q.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(q.ID))
		})

		It("should deny artisans access to unrelated quotations", func() {
			q := seed(workflow.StatusDraft, 99, int64Ptr(77))

			_, err := service.GetQuotation(ctx, artisan, q.ID)

			Expect(err).To(MatchError(quotation.ErrUnauthorizedAccess))
		})

		It("should surface not found", func() {
			_, err := service.GetQuotation(ctx, senior, 424242)

			Expect(err).To(MatchError(quotation.ErrQuotationNotFound))
		})
	})

	Describe("Transition", func() {
		It("should apply a legal transition through the engine", func() {
			q := seed(workflow.StatusDraft, artisan.ID, nil)

			updated, err := service.Transition(ctx, artisan, q.ID, workflow.StatusPendingArtisanReview, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workflow.StatusPendingArtisanReview))
			Expect(repo.updatedFrom).To(Equal(workflow.StatusDraft))
			Expect(repo.updatedTo).To(Equal(workflow.StatusPendingArtisanReview))
		})

		It("should refuse role-gated transitions for artisans", func() {
			q := seed(workflow.StatusPendingSeniorManagerReview, 99, int64Ptr(artisan.ID))

			_, err := service.Transition(ctx, artisan, q.ID, workflow.StatusApproved, "")

			Expect(err).To(MatchError(workflow.ErrInvalidTransition))
		})

		It("should deny access before touching the engine", func() {
			q := seed(workflow.StatusDraft, 99, nil)

			_, err := service.Transition(ctx, artisan, q.ID, workflow.StatusPendingArtisanReview, "")

			Expect(err).To(MatchError(quotation.ErrUnauthorizedAccess))
			Expect(repo.updateStatusID).To(BeZero())
		})

		It("should surface a concurrent modification as a conflict", func() {
			q := seed(workflow.StatusPendingSeniorManagerReview, 99, nil)
			repo.updateErr = workflow.ErrStatusConflict

			_, err := service.Transition(ctx, senior, q.ID, workflow.StatusApproved, "")

			Expect(err).To(MatchError(workflow.ErrStatusConflict))
		})
	})

	Describe("Reject", func() {
		It("should persist the rejection reason", func() {
			q := seed(workflow.StatusPendingJuniorManagerReview, 99, nil)

			updated, err := service.Reject(ctx, senior, q.ID, "material cost missing")

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(workflow.StatusRejected))
			Expect(updated.RejectionReason).NotTo(BeNil())
			Expect(*updated.RejectionReason).To(Equal("material cost missing"))
		})

		It("should require a reason", func() {
			q := seed(workflow.StatusPendingJuniorManagerReview, 99, nil)

			_, err := service.Reject(ctx, senior, q.ID, "   ")

			Expect(err).To(MatchError(workflow.ErrMissingRejectionReason))
		})
	})

	Describe("ListQuotations", func() {
		It("should scope listing by role", func() {
			seed(workflow.StatusDraft, artisan.ID, nil)
			seed(workflow.StatusDraft, 99, int64Ptr(artisan.ID))
			seed(workflow.StatusDraft, 99, nil)

			all, err := service.ListQuotations(ctx, senior, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))

			mine, err := service.ListQuotations(ctx, artisan, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(2))
		})
	})
})
