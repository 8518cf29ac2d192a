package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/contractor-management/internal/core/datamodel/sequence"
	"github.com/frahmantamala/contractor-management/internal/quotation"
	quotationPostgres "github.com/frahmantamala/contractor-management/internal/quotation/postgres"
	"github.com/frahmantamala/contractor-management/internal/workflow"
)

func TestQuotationPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quotation Postgres Suite")
}

// SQLite-compatible model for testing
type SQLiteQuotation struct {
	ID              int64      `gorm:"primaryKey"`
	SequenceNumber  string     `gorm:"column:sequence_number;uniqueIndex;not null"`
	Title           string     `gorm:"not null"`
	CustomerName    string     `gorm:"column:customer_name"`
	PropertyRef     string     `gorm:"column:property_ref"`
	Status          string     `gorm:"column:status;default:DRAFT"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	AssignedToID    *int64     `gorm:"column:assigned_to_id"`
	CreatedByID     int64      `gorm:"column:created_by_id;not null"`
	SubtotalAmount  int64      `gorm:"column:subtotal_amount"`
	TaxAmount       int64      `gorm:"column:tax_amount"`
	TotalAmount     int64      `gorm:"column:total_amount"`
	LaborCost       int64      `gorm:"column:labor_cost"`
	MaterialCost    int64      `gorm:"column:material_cost"`
	SentAt          *time.Time `gorm:"column:sent_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (SQLiteQuotation) TableName() string { return "quotations" }

var _ = Describe("Quotation PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo quotation.Repository
		ctx  context.Context
	)

	int64Ptr := func(v int64) *int64 { return &v }

	newQuotation := func(seq string, createdBy int64, assignedTo *int64) *quotation.Quotation {
		return &quotation.Quotation{
			SequenceNumber: seq,
			Title:          "Bathroom renovation",
			CustomerName:   "Jansen",
			Status:         workflow.StatusDraft,
			AssignedToID:   assignedTo,
			CreatedByID:    createdBy,
			SubtotalAmount: 100000,
			TaxAmount:      21000,
			TotalAmount:    121000,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteQuotation{}, &sequence.Sequence{})
		Expect(err).NotTo(HaveOccurred())

		repo = quotationPostgres.NewQuotationRepository(db)
		ctx = context.Background()
	})

	Describe("Create and GetByID", func() {
		It("should persist a quotation and read it back", func() {
			q := newQuotation("QUO-00001", 1, int64Ptr(9))

			Expect(repo.Create(ctx, q)).To(Succeed())
			Expect(q.ID).To(BeNumerically(">", 0))

			found, err := repo.GetByID(ctx, q.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.SequenceNumber).To(Equal("QUO-00001"))
			Expect(found.Status).To(Equal(workflow.StatusDraft))
			Expect(found.TotalAmount).To(Equal(int64(121000)))
		})

		It("should return ErrQuotationNotFound for a missing ID", func() {
			_, err := repo.GetByID(ctx, 424242)
			Expect(err).To(MatchError(quotation.ErrQuotationNotFound))
		})
	})

	Describe("List and ListByAssignee", func() {
		It("should scope artisan listing to assigned or created quotations", func() {
			mine := newQuotation("QUO-00001", 5, nil)
			assigned := newQuotation("QUO-00002", 1, int64Ptr(5))
			other := newQuotation("QUO-00003", 1, int64Ptr(8))

			Expect(repo.Create(ctx, mine)).To(Succeed())
			Expect(repo.Create(ctx, assigned)).To(Succeed())
			Expect(repo.Create(ctx, other)).To(Succeed())

			all, err := repo.List(ctx, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))

			visible, err := repo.ListByAssignee(ctx, 5, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(visible).To(HaveLen(2))
		})
	})

	Describe("UpdateStatus", func() {
		It("should apply the transition when the expected status matches", func() {
			q := newQuotation("QUO-00001", 1, nil)
			Expect(repo.Create(ctx, q)).To(Succeed())

			err := repo.UpdateStatus(ctx, q.ID, workflow.StatusDraft, workflow.StatusPendingArtisanReview, nil)
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(ctx, q.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(workflow.StatusPendingArtisanReview))
		})

		It("should persist the rejection reason", func() {
			q := newQuotation("QUO-00001", 1, nil)
			q.Status = workflow.StatusPendingJuniorManagerReview
			Expect(repo.Create(ctx, q)).To(Succeed())

			reason := "labor cost is underestimated"
			err := repo.UpdateStatus(ctx, q.ID, workflow.StatusPendingJuniorManagerReview, workflow.StatusRejected, &reason)
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(ctx, q.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(workflow.StatusRejected))
			Expect(found.RejectionReason).NotTo(BeNil())
			Expect(*found.RejectionReason).To(Equal(reason))
		})

		It("should stamp sent_at when moving to SENT_TO_CUSTOMER", func() {
			q := newQuotation("QUO-00001", 1, nil)
			q.Status = workflow.StatusApproved
			Expect(repo.Create(ctx, q)).To(Succeed())

			err := repo.UpdateStatus(ctx, q.ID, workflow.StatusApproved, workflow.StatusSentToCustomer, nil)
			Expect(err).NotTo(HaveOccurred())

			found, err := repo.GetByID(ctx, q.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.SentAt).NotTo(BeNil())
		})

		It("should return ErrStatusConflict when the persisted status moved on", func() {
			q := newQuotation("QUO-00001", 1, nil)
			q.Status = workflow.StatusApproved
			Expect(repo.Create(ctx, q)).To(Succeed())

			err := repo.UpdateStatus(ctx, q.ID, workflow.StatusDraft, workflow.StatusPendingArtisanReview, nil)
			Expect(err).To(MatchError(workflow.ErrStatusConflict))

			found, getErr := repo.GetByID(ctx, q.ID)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(workflow.StatusApproved))
		})

		It("should return ErrStatusConflict for a missing quotation", func() {
			err := repo.UpdateStatus(ctx, 424242, workflow.StatusDraft, workflow.StatusPendingArtisanReview, nil)
			Expect(err).To(MatchError(workflow.ErrStatusConflict))
		})
	})

	Describe("NextSequenceNumber", func() {
		It("should mint QUO numbers independently of other prefixes", func() {
			first, err := repo.NextSequenceNumber(ctx, quotation.SequencePrefix)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal("QUO-00001"))

			second, err := repo.NextSequenceNumber(ctx, quotation.SequencePrefix)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal("QUO-00002"))
		})
	})
})
