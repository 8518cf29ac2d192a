package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStatusChanged         = "workflow.status_changed"
	EventTypePaymentRequestCreated = "payroll.payment_request_created"
)

// StatusChangedEvent is emitted after a quotation or RFQ transition has
// been persisted. Notification fan-out to the other side of the
// contractor/artisan/manager chain subscribes to it.
type StatusChangedEvent struct {
	BaseEvent
	DocumentKind   string `json:"document_kind"`
	DocumentID     int64  `json:"document_id"`
	SequenceNumber string `json:"sequence_number"`
	FromStatus     string `json:"from_status"`
	ToStatus       string `json:"to_status"`
	Reason         string `json:"reason,omitempty"`
}

func NewStatusChangedEvent(kind string, documentID int64, sequenceNumber, from, to, reason string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"document_kind":   kind,
				"document_id":     documentID,
				"sequence_number": sequenceNumber,
				"from_status":     from,
				"to_status":       to,
				"reason":          reason,
			},
		},
		DocumentKind:   kind,
		DocumentID:     documentID,
		SequenceNumber: sequenceNumber,
		FromStatus:     from,
		ToStatus:       to,
		Reason:         reason,
	}
}

// PaymentRequestCreatedEvent is emitted by the salary sweep for each
// payment request it creates, so admins get alerted.
type PaymentRequestCreatedEvent struct {
	BaseEvent
	PaymentRequestID int64  `json:"payment_request_id"`
	SequenceNumber   string `json:"sequence_number"`
	ArtisanID        int64  `json:"artisan_id"`
	Amount           int64  `json:"amount"`
	PeriodKey        string `json:"period_key"`
}

func NewPaymentRequestCreatedEvent(requestID int64, sequenceNumber string, artisanID, amount int64, periodKey string) *PaymentRequestCreatedEvent {
	return &PaymentRequestCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRequestCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_request_id": requestID,
				"sequence_number":    sequenceNumber,
				"artisan_id":         artisanID,
				"amount":             amount,
				"period_key":         periodKey,
			},
		},
		PaymentRequestID: requestID,
		SequenceNumber:   sequenceNumber,
		ArtisanID:        artisanID,
		Amount:           amount,
		PeriodKey:        periodKey,
	}
}
