package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"autorent/internal/events"
	"autorent/internal/models"

	"github.com/rs/zerolog"
)

// NotificationStore is the persistence surface the notifier needs.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Notifier turns reservation lifecycle events into persisted user
// notifications. Delivery is asynchronous through a bounded queue; a full
// queue drops the notification rather than blocking the publisher.
type Notifier struct {
	store       NotificationStore
	retryPolicy RetryPolicy
	queue       chan models.Notification
	logger      *zerolog.Logger
}

func NewNotifier(store NotificationStore, retry RetryPolicy, logger *zerolog.Logger) *Notifier {
	if retry.MaxRetries == 0 {
		retry = DefaultRetryPolicy
	}

	return &Notifier{
		store:       store,
		retryPolicy: retry,
		queue:       make(chan models.Notification, models.NotificationQueueSize),
		logger:      logger,
	}
}

// Bind subscribes the notifier to reservation events on the bus.
func (n *Notifier) Bind(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationConfirmed,
		events.EventReservationCancelled,
		events.EventReservationCompleted,
	} {
		bus.Subscribe(eventType, n.handleEvent)
	}
}

func (n *Notifier) handleEvent(event *events.Event) error {
	var payload events.ReservationEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event", event.Type).Msg("notifier: decode event payload")
		return err
	}

	notification := buildNotification(event.Type, payload)
	if notification == nil {
		return nil
	}

	select {
	case n.queue <- *notification:
	default:
		n.logger.Warn().Str("user_id", payload.UserID).Msg("notifier: queue full, notification dropped")
	}
	return nil
}

func buildNotification(eventType string, payload events.ReservationEventPayload) *models.Notification {
	car := payload.CarName
	if car == "" {
		car = "your car"
	}
	period := fmt.Sprintf("%s to %s",
		payload.StartDate.Format(models.DateLayout), payload.EndDate.Format(models.DateLayout))

	n := &models.Notification{UserID: payload.UserID, CreatedAt: time.Now()}
	switch eventType {
	case events.EventReservationCreated:
		n.Title = "Reservation received"
		n.Message = fmt.Sprintf("Your reservation for %s (%s) is pending confirmation.", car, period)
		n.Type = models.NotificationInfo
	case events.EventReservationConfirmed:
		n.Title = "Reservation confirmed"
		n.Message = fmt.Sprintf("Your reservation for %s (%s) has been confirmed. Show your pickup code at the office.", car, period)
		n.Type = models.NotificationSuccess
	case events.EventReservationCancelled:
		n.Title = "Reservation cancelled"
		n.Message = fmt.Sprintf("Your reservation for %s (%s) was cancelled.", car, period)
		n.Type = models.NotificationWarning
	case events.EventReservationCompleted:
		n.Title = "Reservation completed"
		n.Message = fmt.Sprintf("Your rental of %s has been completed. Thank you!", car)
		n.Type = models.NotificationSuccess
	default:
		return nil
	}
	return n
}

// Start consumes the queue until ctx is done, then drains what is left.
func (n *Notifier) Start(ctx context.Context) {
	n.logger.Info().Msg("notifier: started")
	defer n.logger.Info().Msg("notifier: stopped")

	for {
		select {
		case <-ctx.Done():
			n.drain()
			return
		case notification := <-n.queue:
			n.deliver(ctx, notification)
		}
	}
}

func (n *Notifier) drain() {
	for {
		select {
		case notification := <-n.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			n.deliver(ctx, notification)
			cancel()
		default:
			return
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, notification models.Notification) {
	var lastErr error
	for attempt := 1; attempt <= n.retryPolicy.MaxRetries; attempt++ {
		lastErr = n.store.CreateNotification(ctx, &notification)
		if lastErr == nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(n.retryPolicy.NextDelay(attempt)):
		}
	}

	n.logger.Error().Err(lastErr).
		Str("user_id", notification.UserID).
		Str("title", notification.Title).
		Msg("notifier: giving up on notification")
}
