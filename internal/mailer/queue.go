// Package mailer implements the out-of-band delivery pipeline: pass
// download mails are queued, then a worker presigns the bundle and sends
// the mail. The queue is the explicit at-least-once boundary between the
// API surface and delivery.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Job asks the worker to mail the download link for one pass.
type Job struct {
	Serial string `json:"serial"`
	Email  string `json:"email"`
}

// Message is a received job plus the handle needed to settle it.
type Message struct {
	Job    Job
	Handle string
}

// Queue enqueues mail jobs.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Source is the worker's side of the queue. A message that is not deleted
// is redelivered.
type Source interface {
	Receive(ctx context.Context) ([]Message, error)
	Delete(ctx context.Context, handle string) error
}

// SQSQueue is the production queue.
type SQSQueue struct {
	client      *sqs.Client
	queueURL    string
	waitSeconds int32
}

// NewSQSQueue creates a queue client. waitSeconds enables long polling on
// the receive side.
func NewSQSQueue(client *sqs.Client, queueURL string, waitSeconds int32) *SQSQueue {
	return &SQSQueue{client: client, queueURL: queueURL, waitSeconds: waitSeconds}
}

func (q *SQSQueue) Enqueue(ctx context.Context, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue mail job: %w", err)
	}
	return nil
}

func (q *SQSQueue) Receive(ctx context.Context) ([]Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     q.waitSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive mail jobs: %w", err)
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		var job Job
		if err := json.Unmarshal([]byte(aws.ToString(m.Body)), &job); err != nil {
			// Malformed message: settle it so it does not loop forever.
			_ = q.Delete(ctx, aws.ToString(m.ReceiptHandle))
			continue
		}
		msgs = append(msgs, Message{Job: job, Handle: aws.ToString(m.ReceiptHandle)})
	}
	return msgs, nil
}

func (q *SQSQueue) Delete(ctx context.Context, handle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(handle),
	})
	return err
}

// MemoryQueue is an in-process queue for dev and tests.
type MemoryQueue struct {
	mu      sync.Mutex
	pending []Message
	next    int
}

// NewMemoryQueue creates an empty in-process queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, Message{Job: job, Handle: fmt.Sprintf("mem-%d", q.next)})
	return nil
}

func (q *MemoryQueue) Receive(_ context.Context) ([]Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, len(q.pending))
	copy(out, q.pending)
	return out, nil
}

func (q *MemoryQueue) Delete(_ context.Context, handle string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, m := range q.pending {
		if m.Handle == handle {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			break
		}
	}
	return nil
}
