package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/contractor-management/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	newEvent := func() events.Event {
		return events.BaseEvent{
			ID:        "evt-1",
			Type:      "workflow.status_changed",
			Timestamp: time.Now(),
		}
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(lg)
	})

	Describe("Publish", func() {
		It("should deliver to handlers even after the publisher's context is canceled", func() {
			received := make(chan error, 1)
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				received <- ctx.Err()
				return nil
			})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(bus.Publish(ctx, newEvent())).To(Succeed())
			Eventually(received).Should(Receive(BeNil()))
		})

		It("should keep the publisher's context values for handlers", func() {
			type ctxKey struct{}
			seen := make(chan any, 1)
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				seen <- ctx.Value(ctxKey{})
				return nil
			})

			ctx := context.WithValue(context.Background(), ctxKey{}, "trace-123")

			Expect(bus.Publish(ctx, newEvent())).To(Succeed())
			Eventually(seen).Should(Receive(Equal("trace-123")))
		})

		It("should not fail when a handler fails", func() {
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				return errors.New("handler down")
			})

			Expect(bus.Publish(context.Background(), newEvent())).To(Succeed())
			bus.Drain()
		})
	})

	Describe("Drain", func() {
		It("should wait for in-flight handlers before returning", func() {
			var ran atomic.Int32
			release := make(chan struct{})
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				<-release
				ran.Add(1)
				return nil
			})

			Expect(bus.Publish(context.Background(), newEvent())).To(Succeed())

			drained := make(chan struct{})
			go func() {
				bus.Drain()
				close(drained)
			}()

			Consistently(drained, 100*time.Millisecond).ShouldNot(BeClosed())
			Expect(ran.Load()).To(Equal(int32(0)))

			close(release)
			Eventually(drained).Should(BeClosed())
			Expect(ran.Load()).To(Equal(int32(1)))
		})

		It("should return immediately when nothing was published", func() {
			done := make(chan struct{})
			go func() {
				bus.Drain()
				close(done)
			}()
			Eventually(done).Should(BeClosed())
		})
	})

	Describe("PublishSync", func() {
		It("should run handlers in order and stop at the first failure", func() {
			var order []string
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				order = append(order, "first")
				return errors.New("first failed")
			})
			bus.Subscribe("workflow.status_changed", func(ctx context.Context, event events.Event) error {
				order = append(order, "second")
				return nil
			})

			err := bus.PublishSync(context.Background(), newEvent())

			Expect(err).To(HaveOccurred())
			Expect(order).To(Equal([]string{"first"}))
		})
	})
})
