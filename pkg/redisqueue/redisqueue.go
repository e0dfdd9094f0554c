// Package redisqueue implements the facade's client interface on a Redis
// list, so code written against pkg/sqs runs unchanged in local development
// without AWS.
//
// Fidelity limits: messages are removed from the list on receive, so there
// is no visibility timeout and no redelivery of unacknowledged messages;
// deletes are acknowledged no-ops and receipts are synthetic.
package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	sqsfacade "sqs-utils/pkg/sqs"
)

// Config represents Redis queue backend configuration options
type Config struct {
	// Addr is the Redis server address as host:port
	Addr string
	// Password is the Redis server password
	Password string
	// Database is the Redis database number
	Database int
	// KeyPrefix namespaces the list keys holding queue messages
	KeyPrefix string
}

// DefaultConfig returns the configuration used when none is provided
func DefaultConfig() *Config {
	return &Config{
		Addr:      "localhost:6379",
		Password:  "",
		Database:  0,
		KeyPrefix: "queues",
	}
}

// Client is a Redis-list queue backend satisfying the facade's client
// interface.
type Client struct {
	rdb    *redis.Client
	prefix string
}

var _ sqsfacade.Client = (*Client)(nil)

// storedMessage is the JSON shape of a queued message inside the list.
type storedMessage struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// NewClient creates a new Redis queue backend with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.Database,
	})

	return &Client{
		rdb:    rdb,
		prefix: config.KeyPrefix,
	}
}

// Ping tests the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetQueueUrl resolves a queue name to the Redis list key acting as its URL.
func (c *Client) GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
	key := c.prefix + ":" + aws.ToString(params.QueueName)
	return &awssqs.GetQueueUrlOutput{QueueUrl: aws.String(key)}, nil
}

// SendMessageBatch pushes every entry onto the tail of the list. All entries
// are reported successful; a Redis failure fails the whole call.
func (c *Client) SendMessageBatch(ctx context.Context, params *awssqs.SendMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageBatchOutput, error) {
	key := aws.ToString(params.QueueUrl)

	payloads := make([]interface{}, len(params.Entries))
	for i, entry := range params.Entries {
		encoded, err := json.Marshal(storedMessage{
			ID:   aws.ToString(entry.Id),
			Body: aws.ToString(entry.MessageBody),
		})
		if err != nil {
			return nil, err
		}
		payloads[i] = encoded
	}

	if err := c.rdb.RPush(ctx, key, payloads...).Err(); err != nil {
		return nil, err
	}

	successful := make([]types.SendMessageBatchResultEntry, len(params.Entries))
	for i, entry := range params.Entries {
		successful[i] = types.SendMessageBatchResultEntry{
			Id:        entry.Id,
			MessageId: entry.Id,
		}
	}
	return &awssqs.SendMessageBatchOutput{Successful: successful}, nil
}

// ReceiveMessage pops up to MaxNumberOfMessages from the head of the list.
// When the list is empty it blocks up to WaitTimeSeconds for a single
// message, emulating the long-poll wait window.
func (c *Client) ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error) {
	key := aws.ToString(params.QueueUrl)
	max := params.MaxNumberOfMessages
	if max < 1 {
		max = 1
	}

	var messages []types.Message
	for int32(len(messages)) < max {
		res, err := c.rdb.LPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return nil, err
		}
		msg, err := decodeMessage(res)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if len(messages) == 0 && params.WaitTimeSeconds > 0 {
		res, err := c.rdb.BLPop(ctx, time.Duration(params.WaitTimeSeconds)*time.Second, key).Result()
		if errors.Is(err, redis.Nil) {
			return &awssqs.ReceiveMessageOutput{}, nil
		}
		if err != nil {
			return nil, err
		}
		// BLPop returns the key followed by the popped value
		msg, err := decodeMessage(res[1])
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return &awssqs.ReceiveMessageOutput{Messages: messages}, nil
}

// DeleteMessageBatch acknowledges every entry as deleted. The pop on receive
// already removed the message from the list.
func (c *Client) DeleteMessageBatch(ctx context.Context, params *awssqs.DeleteMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteMessageBatchOutput, error) {
	successful := make([]types.DeleteMessageBatchResultEntry, len(params.Entries))
	for i, entry := range params.Entries {
		successful[i] = types.DeleteMessageBatchResultEntry{Id: entry.Id}
	}
	return &awssqs.DeleteMessageBatchOutput{Successful: successful}, nil
}

func decodeMessage(raw string) (types.Message, error) {
	var stored storedMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return types.Message{}, err
	}
	return types.Message{
		MessageId:     aws.String(stored.ID),
		Body:          aws.String(stored.Body),
		ReceiptHandle: aws.String(uuid.NewString()),
	}, nil
}
