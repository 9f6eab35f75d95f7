package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// QueueSender is a minimal interface for sending messages to a queue.
type QueueSender interface {
	SendMessage(ctx context.Context, body []byte) error
}

// SQSQueue sends messages to a single SQS queue.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSQueue(cfg sdkaws.Config, queueURL string) *SQSQueue {
	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}
}

// SendMessage sends a single message to the queue.
func (q *SQSQueue) SendMessage(ctx context.Context, body []byte) error {
	if q.queueURL == "" {
		return fmt.Errorf("empty queue URL")
	}
	msg := string(body)
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    &q.queueURL,
		MessageBody: &msg,
	})
	if err != nil {
		return fmt.Errorf("sqs send failed for queue %s: %w", q.queueURL, err)
	}
	return nil
}
