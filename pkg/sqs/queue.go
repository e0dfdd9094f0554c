package sqs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
)

// FIFO queues are identified by a service-imposed naming convention: the
// queue name ends with this suffix (case-insensitive).
const fifoSuffix = ".fifo"

// DefaultGroupID is the message group used when a SendConfig does not name one.
const DefaultGroupID = "default"

// Client defines the subset of SQS operations used by Queue.
// *sqs.Client from the AWS SDK satisfies it.
type Client interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

// Message is a received message body together with the receipt handle
// required to delete that delivery.
type Message struct {
	Body    string
	Receipt string
}

// Queue is a thin facade over a queue client: batched sends, long-poll
// receives and batched deletes. It holds no state besides the client and
// resolves the queue name to its URL on every call.
type Queue struct {
	client Client
}

// New creates a Queue on top of the given client.
func New(client Client) *Queue {
	return &Queue{client: client}
}

// SendConfig defines the optional parameters of SendBatch.
//
// Zero-valued fields fall back to defaults: GroupID "default" and
// SHA1Identity for both Identify and Deduplicate.
type SendConfig struct {
	// GroupID is the SQS message group; messages within the same group are
	// strictly ordered. Only sent to FIFO queues.
	GroupID string
	// Identify returns a per-batch unique entry id for a message body.
	Identify IdentityFunc
	// Deduplicate returns the id SQS uses to suppress duplicate sends
	// within the deduplication interval. Only sent to FIFO queues.
	Deduplicate IdentityFunc
}

// SendBatch sends a batch of message bodies to the named queue in a single
// request. An empty batch succeeds without a network call.
//
// FIFO queues are detected from the queue name; for standard queues the
// group and deduplication ids are omitted, since SQS rejects them there.
//
// Returns true only if the service reports every entry as successful.
// Partial failure is a normal outcome signaled by false, not an error.
func (q *Queue) SendBatch(ctx context.Context, queueName string, batch []string, config *SendConfig) (bool, error) {
	if len(batch) == 0 {
		return true, nil
	}

	groupID := DefaultGroupID
	identify := IdentityFunc(SHA1Identity)
	deduplicate := IdentityFunc(SHA1Identity)
	if config != nil {
		if config.GroupID != "" {
			groupID = config.GroupID
		}
		if config.Identify != nil {
			identify = config.Identify
		}
		if config.Deduplicate != nil {
			deduplicate = config.Deduplicate
		}
	}

	queueURL, err := q.resolveQueueURL(ctx, queueName)
	if err != nil {
		return false, err
	}

	fifo := IsFIFOQueue(queueName)
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(batch))
	for _, body := range batch {
		entry := types.SendMessageBatchRequestEntry{
			Id:          aws.String(identify(body)),
			MessageBody: aws.String(body),
		}
		if fifo {
			entry.MessageGroupId = aws.String(groupID)
			entry.MessageDeduplicationId = aws.String(deduplicate(body))
		}
		entries = append(entries, entry)
	}

	output, err := q.client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		return false, fmt.Errorf("failed to send batch to queue %s: %w", queueName, err)
	}

	return len(output.Successful) == len(batch), nil
}

// ReceiveConfig defines the optional parameters of the receive operations.
//
// Zero-valued fields fall back to defaults:
//   - HideForSeconds: 3600 (visibility timeout)
//   - PollForSeconds: 20 (long-poll wait time)
//   - MaxBatchSize: 10
//
// Validations:
//   - PollForSeconds must be between 1 and 20.
//   - MaxBatchSize must be between 1 and 10.
type ReceiveConfig struct {
	HideForSeconds int32
	PollForSeconds int32
	MaxBatchSize   int32
}

// ReceiveMany receives up to MaxBatchSize message bodies from the named
// queue. The call may block up to PollForSeconds before returning; an empty
// queue yields an empty slice, not an error.
func (q *Queue) ReceiveMany(ctx context.Context, queueName string, config *ReceiveConfig) ([]string, error) {
	messages, err := q.ReceiveManyWithReceipts(ctx, queueName, config)
	if err != nil {
		return nil, err
	}

	bodies := make([]string, len(messages))
	for i, msg := range messages {
		bodies[i] = msg.Body
	}
	return bodies, nil
}

// ReceiveManyWithReceipts behaves like ReceiveMany but keeps the receipt
// handle of every delivery, preserving receive order. Receipts are needed
// to acknowledge the messages with RemoveBatch.
func (q *Queue) ReceiveManyWithReceipts(ctx context.Context, queueName string, config *ReceiveConfig) ([]Message, error) {
	hideFor := int32(3600)
	pollFor := int32(20)
	maxBatch := int32(10)
	if config != nil {
		if config.HideForSeconds != 0 {
			hideFor = config.HideForSeconds
		}
		if config.PollForSeconds != 0 {
			pollFor = config.PollForSeconds
		}
		if config.MaxBatchSize != 0 {
			maxBatch = config.MaxBatchSize
		}
	}

	if pollFor < 1 || pollFor > 20 {
		return nil, errors.New("pollForSeconds must be between 1 and 20")
	}
	if maxBatch < 1 || maxBatch > 10 {
		return nil, errors.New("maxBatchSize must be between 1 and 10")
	}

	queueURL, err := q.resolveQueueURL(ctx, queueName)
	if err != nil {
		return nil, err
	}

	output, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxBatch,
		VisibilityTimeout:   hideFor,
		WaitTimeSeconds:     pollFor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive from queue %s: %w", queueName, err)
	}

	messages := make([]Message, 0, len(output.Messages))
	for _, msg := range output.Messages {
		messages = append(messages, Message{
			Body:    aws.ToString(msg.Body),
			Receipt: aws.ToString(msg.ReceiptHandle),
		})
	}
	return messages, nil
}

// ReceiveOne receives a single message body from the named queue. The second
// return value reports whether a message was present; an empty queue is a
// normal outcome, not an error.
func (q *Queue) ReceiveOne(ctx context.Context, queueName string, config *ReceiveConfig) (string, bool, error) {
	single := ReceiveConfig{MaxBatchSize: 1}
	if config != nil {
		single.HideForSeconds = config.HideForSeconds
		single.PollForSeconds = config.PollForSeconds
	}

	messages, err := q.ReceiveManyWithReceipts(ctx, queueName, &single)
	if err != nil {
		return "", false, err
	}
	if len(messages) == 0 {
		return "", false, nil
	}
	return messages[0].Body, true, nil
}

// RemoveBatch deletes a batch of received messages from the named queue
// given their receipt handles. An empty input succeeds without a network
// call. Entry ids are derived from the receipts by SHA-1, so receipts are
// assumed unique within the batch.
//
// Returns true only if the service reports every receipt as deleted. A
// stale receipt (expired or already deleted) is a normal false outcome;
// any other service fault propagates.
func (q *Queue) RemoveBatch(ctx context.Context, queueName string, receipts []string) (bool, error) {
	if len(receipts) == 0 {
		return true, nil
	}

	queueURL, err := q.resolveQueueURL(ctx, queueName)
	if err != nil {
		return false, err
	}

	entries := make([]types.DeleteMessageBatchRequestEntry, len(receipts))
	for i, receipt := range receipts {
		entries[i] = types.DeleteMessageBatchRequestEntry{
			Id:            aws.String(SHA1Identity(receipt)),
			ReceiptHandle: aws.String(receipt),
		}
	}

	output, err := q.client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(queueURL),
		Entries:  entries,
	})
	if err != nil {
		if isInvalidReceipt(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete batch from queue %s: %w", queueName, err)
	}

	return len(output.Successful) == len(receipts), nil
}

// IsFIFOQueue reports whether the queue name marks a FIFO queue. SQS
// requires FIFO queue names to end in ".fifo"; ordering and deduplication
// semantics are inferred from the name, never passed explicitly.
func IsFIFOQueue(queueName string) bool {
	return strings.HasSuffix(strings.ToLower(queueName), fifoSuffix)
}

// resolveQueueURL resolves the queue name to its URL. Resolution is not
// cached; every facade call re-resolves.
func (q *Queue) resolveQueueURL(ctx context.Context, queueName string) (string, error) {
	result, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}
	if result.QueueUrl == nil {
		return "", fmt.Errorf("queue URL is nil for queue %s", queueName)
	}
	return *result.QueueUrl, nil
}

// isInvalidReceipt matches the one service fault that is downgraded to a
// boolean outcome: a receipt handle that expired or was already deleted.
func isInvalidReceipt(err error) bool {
	var invalid *types.ReceiptHandleIsInvalid
	if errors.As(err, &invalid) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ReceiptHandleIsInvalid"
}
