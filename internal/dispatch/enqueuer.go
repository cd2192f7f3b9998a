package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"ms-reminders/internal/models"
	"ms-reminders/internal/sqsutil"
)

// Enqueuer places composed notifications on the dispatch queue so the push
// send happens off the scheduler tick.
type Enqueuer struct {
	sqsClient *sqs.Client
	queueURL  string
}

func NewEnqueuer(sqsClient *sqs.Client, queueURL string) *Enqueuer {
	return &Enqueuer{
		sqsClient: sqsClient,
		queueURL:  queueURL,
	}
}

func (e *Enqueuer) Enqueue(ctx context.Context, msg models.DispatchMessageBody) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch message: %w", err)
	}
	return sqsutil.SendMessage(ctx, e.sqsClient, e.queueURL, string(body))
}
