package worker

import (
	"context"
	"encoding/json"

	"github.com/wexxqt/ecatsulta-api/internal/email"
	"github.com/wexxqt/ecatsulta-api/internal/model"
	"github.com/wexxqt/ecatsulta-api/pkg/logger"
	"github.com/wexxqt/ecatsulta-api/pkg/messaging"
	"github.com/wexxqt/ecatsulta-api/pkg/metrics"
)

// Notifier subscribes to the appointment events channel and emails
// patients. Handling must stay idempotent: the channel re-delivers after
// a crashed publish cycle, and resending a confirmation is harmless.
type Notifier struct {
	broker  messaging.Broker
	email   email.Service
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewNotifier(broker messaging.Broker, email email.Service, logger *logger.Logger, metrics *metrics.Metrics) *Notifier {
	return &Notifier{
		broker:  broker,
		email:   email,
		logger:  logger,
		metrics: metrics,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, AppointmentEventsChannel)
	if err != nil {
		return err
	}

	n.logger.Info("Starting appointment notifier")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("Shutting down appointment notifier")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(ctx, msg)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, raw []byte) {
	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		n.logger.Error(err, "Failed to decode event envelope")
		return
	}

	var event model.AppointmentEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		n.logger.Error(err, "Failed to decode appointment event", "event_type", envelope.Type)
		return
	}

	var err error
	switch envelope.Type {
	case model.EventAppointmentBooked:
		err = n.email.SendBookingConfirmation(ctx, &event)
	case model.EventAppointmentCancelled:
		err = n.email.SendCancellation(ctx, &event)
	default:
		return
	}

	if err != nil {
		n.metrics.NotificationsDelivered.WithLabelValues("error").Inc()
		n.logger.Error(err, "Failed to send notification",
			"event_type", envelope.Type,
			"appointment_code", event.AppointmentCode)
		return
	}
	n.metrics.NotificationsDelivered.WithLabelValues("success").Inc()
}
