package event

import (
	"context"
	"encoding/json"
	"log/slog"

	"booking-admin-service/internal/db"
	"booking-admin-service/internal/message"
	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

var (
	publishSuccessCounter = metrics.GetOrCreateCounter(`activity_publish_total{result="success"}`)
	publishErrorCounter   = metrics.GetOrCreateCounter(`activity_publish_total{result="error"}`)
)

// Publisher forwards committed activity records to the booking-activity
// topic. Messages are keyed by booking id so the sink sees each booking's
// trail in order.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(writer *kafka.Writer, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) PublishActivity(ctx context.Context, activity *db.ActivityEntity) error {
	event := message.ActivityEvent{
		ID:          activity.ID,
		BookingID:   activity.BookingID,
		ActorID:     activity.ActorID,
		Action:      activity.Action,
		Description: activity.Description,
		Metadata:    json.RawMessage(activity.Metadata),
		CreatedAt:   activity.CreatedAt,
	}

	value, err := json.Marshal(event)
	if err != nil {
		publishErrorCounter.Inc()
		return errors.Wrap(err, "marshalling activity event")
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(activity.BookingID.String()),
		Value: value,
	})
	if err != nil {
		publishErrorCounter.Inc()
		return errors.Wrap(err, "writing activity event")
	}

	p.logger.DebugContext(ctx, "Published activity event", "id", activity.ID, "action", activity.Action)
	publishSuccessCounter.Inc()
	return nil
}
