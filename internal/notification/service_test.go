package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/contractor-management/internal/core/events"
	"github.com/frahmantamala/contractor-management/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

type mockRepository struct {
	created   []*notification.Notification
	createErr error
}

func (m *mockRepository) Create(ctx context.Context, n *notification.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

func (m *mockRepository) ListByRecipient(ctx context.Context, recipientRole string, limit, offset int) ([]*notification.Notification, error) {
	var result []*notification.Notification
	for _, n := range m.created {
		if n.RecipientRole == recipientRole {
			result = append(result, n)
		}
	}
	return result, nil
}

var _ = Describe("Notification Service", func() {
	var (
		repo    *mockRepository
		service *notification.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = &mockRepository{}
		logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		service = notification.NewService(repo, logger)
		ctx = context.Background()
	})

	Describe("HandleStatusChanged", func() {
		It("should notify the contractor side when a document enters review", func() {
			event := events.NewStatusChangedEvent("quotation", 7, "QUO-00007",
				"IN_PROGRESS", "PENDING_JUNIOR_MANAGER_REVIEW", "")

			Expect(service.HandleStatusChanged(ctx, event)).To(Succeed())
			Expect(repo.created).To(HaveLen(1))

			n := repo.created[0]
			Expect(n.RecipientRole).To(Equal(notification.RecipientContractor))
			Expect(n.Kind).To(Equal(notification.KindStatusChanged))
			Expect(n.DocumentKind).To(Equal("quotation"))
			Expect(n.DocumentID).To(Equal(int64(7)))
			Expect(n.Subject).To(ContainSubstring("QUO-00007"))
		})

		It("should notify the artisan when a document is rejected, including the reason", func() {
			event := events.NewStatusChangedEvent("quotation", 7, "QUO-00007",
				"PENDING_SENIOR_MANAGER_REVIEW", "REJECTED", "scope unclear")

			Expect(service.HandleStatusChanged(ctx, event)).To(Succeed())
			Expect(repo.created).To(HaveLen(1))

			n := repo.created[0]
			Expect(n.RecipientRole).To(Equal(notification.RecipientArtisan))
			Expect(n.Body).To(ContainSubstring("scope unclear"))
		})

		It("should return the repository error so the bus can log it", func() {
			repo.createErr = errors.New("notifications table unavailable")
			event := events.NewStatusChangedEvent("rfq", 3, "RFQ-00003",
				"DRAFT", "PENDING_ARTISAN_REVIEW", "")

			err := service.HandleStatusChanged(ctx, event)
			Expect(err).To(MatchError(repo.createErr))
		})
	})

	Describe("HandlePaymentRequestCreated", func() {
		It("should alert admins with the payment details", func() {
			event := events.NewPaymentRequestCreatedEvent(21, "PAY-00021", 7, 15000, "2024-03")

			Expect(service.HandlePaymentRequestCreated(ctx, event)).To(Succeed())
			Expect(repo.created).To(HaveLen(1))

			n := repo.created[0]
			Expect(n.RecipientRole).To(Equal(notification.RecipientAdmin))
			Expect(n.Kind).To(Equal(notification.KindPaymentRequestCreated))
			Expect(n.Subject).To(ContainSubstring("PAY-00021"))
			Expect(n.Body).To(ContainSubstring("2024-03"))
		})
	})

	Describe("RegisterSubscribers", func() {
		It("should receive events published on the bus", func() {
			logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
			bus := events.NewEventBus(logger)
			service.RegisterSubscribers(bus)

			event := events.NewStatusChangedEvent("quotation", 7, "QUO-00007",
				"DRAFT", "PENDING_ARTISAN_REVIEW", "")
			Expect(bus.PublishSync(ctx, event)).To(Succeed())

			Expect(repo.created).To(HaveLen(1))
		})
	})
})
