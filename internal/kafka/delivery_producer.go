package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"ms-reminders/internal/models"
)

// DeliveryProducer publishes a record for every dispatch attempt to the
// delivery audit topic. Best effort: publish failures are logged, never
// propagated.
type DeliveryProducer struct {
	writer *kafka.Writer
}

func NewDeliveryProducer(kafkaURL, topic string) *DeliveryProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaURL),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &DeliveryProducer{writer: writer}
}

// Publish writes one delivery record, keyed by reminder ID so a consumer can
// fold the per-reminder history.
func (p *DeliveryProducer) Publish(ctx context.Context, record models.DeliveryRecord) {
	value, err := json.Marshal(record)
	if err != nil {
		log.Printf("Error marshalling delivery record: %v", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.ReminderID),
		Value: value,
	})
	if err != nil {
		log.Printf("Error publishing delivery record for reminder %s: %v", record.ReminderID, err)
		return
	}
	log.Printf("Published delivery record for reminder %s (%s, %s)", record.ReminderID, record.LeadLabel, record.Status)
}

func (p *DeliveryProducer) Close() error {
	return p.writer.Close()
}
