package sqs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerValidation(t *testing.T) {
	ctx := context.Background()
	queue := New(newMockClient())
	handler := HandlerFunc(func(msg Message) error { return nil })

	tests := []struct {
		name    string
		config  *WorkerConfig
		wantErr string
	}{
		{name: "max_messages_too_high", config: &WorkerConfig{MaxNumberOfMessages: 11}, wantErr: "maxNumberOfMessages must be between 1 and 10"},
		{name: "wait_time_too_high", config: &WorkerConfig{WaitTimeSeconds: 21}, wantErr: "waitTimeSeconds must be between 1 and 20"},
		{name: "negative_pool_size", config: &WorkerConfig{PoolSize: -1}, wantErr: "poolSize must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorker(ctx, queue, "jobs-queue", handler, tt.config)
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNewWorkerDefaults(t *testing.T) {
	queue := New(newMockClient())
	handler := HandlerFunc(func(msg Message) error { return nil })

	worker, err := NewWorker(context.Background(), queue, "jobs-queue", handler, nil)
	require.NoError(t, err)
	require.Equal(t, int32(10), worker.maxNumberOfMessages)
	require.Equal(t, int32(20), worker.waitTimeSeconds)
	require.Equal(t, int32(3600), worker.hideForSeconds)
	require.Equal(t, 1, worker.poolSize)
	require.Equal(t, Silent, worker.logLevel)
}

func TestNewWorkerUnknownQueue(t *testing.T) {
	client := newMockClient()
	client.getQueueUrlFn = func(params *sqs.GetQueueUrlInput) (*sqs.GetQueueUrlOutput, error) {
		return nil, &types.QueueDoesNotExist{Message: aws.String("missing")}
	}
	handler := HandlerFunc(func(msg Message) error { return nil })

	_, err := NewWorker(context.Background(), New(client), "missing-queue", handler, nil)
	require.Error(t, err)
}

func TestWorkerProcessesAndRemovesMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var receives int32
	deleted := make(chan *sqs.DeleteMessageBatchInput, 1)

	client := newMockClient()
	client.receiveMessageFn = func(params *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
		if atomic.AddInt32(&receives, 1) == 1 {
			return &sqs.ReceiveMessageOutput{Messages: []types.Message{
				{Body: aws.String("payload"), ReceiptHandle: aws.String("receipt-1")},
			}}, nil
		}
		return &sqs.ReceiveMessageOutput{}, nil
	}
	client.deleteMessageBatchFn = func(params *sqs.DeleteMessageBatchInput) (*sqs.DeleteMessageBatchOutput, error) {
		select {
		case deleted <- params:
		default:
		}
		return &sqs.DeleteMessageBatchOutput{
			Successful: []types.DeleteMessageBatchResultEntry{{Id: params.Entries[0].Id}},
		}, nil
	}

	handled := make(chan Message, 1)
	handler := HandlerFunc(func(msg Message) error {
		handled <- msg
		return nil
	})

	worker, err := NewWorker(ctx, New(client), "jobs-queue", handler, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case msg := <-handled:
		require.Equal(t, "payload", msg.Body)
		require.Equal(t, "receipt-1", msg.Receipt)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}

	select {
	case input := <-deleted:
		require.Len(t, input.Entries, 1)
		require.Equal(t, "receipt-1", aws.ToString(input.Entries[0].ReceiptHandle))
	case <-time.After(5 * time.Second):
		t.Fatal("message was not removed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestWorkerKeepsMessageOnHandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var receives int32
	client := newMockClient()
	client.receiveMessageFn = func(params *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
		if atomic.AddInt32(&receives, 1) == 1 {
			return &sqs.ReceiveMessageOutput{Messages: []types.Message{
				{Body: aws.String("payload"), ReceiptHandle: aws.String("receipt-1")},
			}}, nil
		}
		return &sqs.ReceiveMessageOutput{}, nil
	}

	handled := make(chan struct{}, 1)
	handler := HandlerFunc(func(msg Message) error {
		select {
		case handled <- struct{}{}:
		default:
		}
		return errors.New("processing failed")
	})

	worker, err := NewWorker(ctx, New(client), "jobs-queue", handler, nil)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}

	// give any misplaced ack a chance to happen before asserting
	time.Sleep(100 * time.Millisecond)
	require.Empty(t, client.deleteInputs)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
