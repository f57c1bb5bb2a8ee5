package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"booking-admin-service/internal/message"
	"booking-admin-service/internal/payout"
	"github.com/VictoriaMetrics/metrics"
	"github.com/segmentio/kafka-go"
)

var (
	payoutRequestReadErrorCounter      = metrics.GetOrCreateCounter(`kafka_reader_total{result="read_error",type="payout_request"}`)
	payoutRequestUnmarshalErrorCounter = metrics.GetOrCreateCounter(`kafka_reader_total{result="unmarshal_error",type="payout_request"}`)
	payoutRequestProcessErrorCounter   = metrics.GetOrCreateCounter(`kafka_reader_total{result="process_error",type="payout_request"}`)
	payoutRequestSuccessCounter        = metrics.GetOrCreateCounter(`kafka_reader_total{result="success",type="payout_request"}`)
)

func NewReader(kafkaURL, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(kafkaURL, ","),
		GroupID: groupID,
		Topic:   topic,
	})
}

// ReadPayoutRequests consumes queued payout requests and feeds them to the
// payout service. Failed requests are not retried here: the payment stays
// in a resumable state and the requester submits again.
func ReadPayoutRequests(reader *kafka.Reader, service *payout.Service, logger *slog.Logger) {
	go func() {
		ctx := context.Background()
		for {
			logger.InfoContext(ctx, "Waiting for payout requests from Kafka...")
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				logger.ErrorContext(ctx, fmt.Sprintf("Error reading message: %v", err))
				payoutRequestReadErrorCounter.Inc()
				continue
			}

			var request message.PayoutRequest
			if err := json.Unmarshal(m.Value, &request); err != nil {
				logger.ErrorContext(ctx, fmt.Sprintf("Error unmarshalling message: %v", err))
				payoutRequestUnmarshalErrorCounter.Inc()
				continue
			}

			if _, err := service.ProcessPayout(ctx, request.PaymentID); err != nil {
				logger.ErrorContext(ctx, fmt.Sprintf("Error processing payout request: %v", err))
				payoutRequestProcessErrorCounter.Inc()
				continue
			}
			payoutRequestSuccessCounter.Inc()
		}
	}()
}
