package sqsutil

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SendMessage enqueues one message body on the dispatch queue.
func SendMessage(ctx context.Context, client *sqs.Client, queueURL, body string) error {
	_, err := client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", queueURL, err)
	}
	return nil
}

// ReceiveMessage long-polls the queue for a batch of messages.
func ReceiveMessage(ctx context.Context, client *sqs.Client, queueURL string) ([]types.Message, error) {
	result, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive message: %w", err)
	}
	return result.Messages, nil
}

// DeleteMessageBatch removes processed messages in a single API call.
func DeleteMessageBatch(ctx context.Context, client *sqs.Client, queueURL string, entries []types.DeleteMessageBatchRequestEntry) error {
	if len(entries) == 0 {
		return nil
	}

	log.Printf("Deleting %d messages in a batch from SQS queue %s", len(entries), queueURL)
	result, err := client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("batch delete failed: %w", err)
	}

	if len(result.Failed) > 0 {
		log.Printf("Warning: %d messages failed to delete in batch operation", len(result.Failed))
		for _, failure := range result.Failed {
			log.Printf("Delete failure - ID: %s, Code: %s, Message: %s",
				*failure.Id, *failure.Code, *failure.Message)
		}
	}
	return nil
}
