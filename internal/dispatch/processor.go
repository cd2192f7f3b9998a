package dispatch

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"ms-reminders/internal/models"
	"ms-reminders/internal/push"
	"ms-reminders/internal/scheduler"
	"ms-reminders/internal/sqsutil"
)

// Processor consumes the dispatch queue and performs the actual push sends.
type Processor struct {
	sqsClient  *sqs.Client
	dispatcher push.Dispatcher
	auditor    scheduler.Auditor // nil means no audit trail
	queueURL   string
}

func NewProcessor(sqsClient *sqs.Client, dispatcher push.Dispatcher, auditor scheduler.Auditor, queueURL string) *Processor {
	return &Processor{
		sqsClient:  sqsClient,
		dispatcher: dispatcher,
		auditor:    auditor,
		queueURL:   queueURL,
	}
}

// ProcessMessages long-polls the dispatch queue until the context is
// cancelled. Malformed messages are deleted; failed sends are deleted too,
// since a push failure is a per-item no-op (no retry), matching the inline
// dispatch path.
func (p *Processor) ProcessMessages(ctx context.Context) error {
	log.Printf("Starting to process dispatch messages from %s", p.queueURL)

	for {
		select {
		case <-ctx.Done():
			log.Println("Context cancelled, stopping dispatch processor")
			return ctx.Err()
		default:
			// Continue processing
		}

		rawMessages, err := sqsutil.ReceiveMessage(ctx, p.sqsClient, p.queueURL)
		if err != nil {
			log.Printf("Error receiving messages from dispatch queue: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		if len(rawMessages) == 0 {
			continue // long polling already waited
		}

		log.Printf("Received %d messages from dispatch queue", len(rawMessages))
		var messagesToDelete []types.DeleteMessageBatchRequestEntry

		for _, rawMessage := range rawMessages {
			messagesToDelete = append(messagesToDelete, types.DeleteMessageBatchRequestEntry{
				Id:            rawMessage.MessageId,
				ReceiptHandle: rawMessage.ReceiptHandle,
			})

			var msg models.DispatchMessageBody
			if err := json.Unmarshal([]byte(*rawMessage.Body), &msg); err != nil {
				log.Printf("Error unmarshalling dispatch message, deleting malformed message: %v", err)
				continue
			}

			p.send(ctx, msg)
		}

		if err := sqsutil.DeleteMessageBatch(ctx, p.sqsClient, p.queueURL, messagesToDelete); err != nil {
			log.Printf("Error batch deleting dispatch messages: %v", err)
		}
	}
}

func (p *Processor) send(ctx context.Context, msg models.DispatchMessageBody) {
	err := p.dispatcher.Send(ctx, msg.PushToken, msg.Title, msg.Body, map[string]string{
		"reminder_id": msg.ReminderID,
		"lead_label":  msg.LeadLabel,
	})
	status := "sent"
	errText := ""
	if err != nil {
		log.Printf("Error sending queued notification for reminder %s (%s): %v", msg.ReminderID, msg.LeadLabel, err)
		status = "failed"
		errText = err.Error()
	} else {
		log.Printf("Sent queued %q notification for reminder %s to user %s", msg.LeadLabel, msg.ReminderID, msg.UID)
	}

	if p.auditor != nil {
		p.auditor.Publish(ctx, models.DeliveryRecord{
			UID:        msg.UID,
			ReminderID: msg.ReminderID,
			LeadLabel:  msg.LeadLabel,
			Title:      msg.Title,
			Status:     status,
			Error:      errText,
			SentAt:     time.Now(),
		})
	}
}
