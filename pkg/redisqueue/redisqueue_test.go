package redisqueue

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/require"
)

func TestGetQueueUrlUsesKeyPrefix(t *testing.T) {
	client := NewClient(&Config{Addr: "localhost:6379", KeyPrefix: "dev-queues"})

	output, err := client.GetQueueUrl(context.Background(), &awssqs.GetQueueUrlInput{
		QueueName: aws.String("jobs-queue"),
	})
	require.NoError(t, err)
	require.Equal(t, "dev-queues:jobs-queue", aws.ToString(output.QueueUrl))
}

func TestGetQueueUrlDefaultConfig(t *testing.T) {
	client := NewClient(nil)

	output, err := client.GetQueueUrl(context.Background(), &awssqs.GetQueueUrlInput{
		QueueName: aws.String("jobs-queue"),
	})
	require.NoError(t, err)
	require.Equal(t, "queues:jobs-queue", aws.ToString(output.QueueUrl))
}

func TestDeleteMessageBatchAcknowledgesAllEntries(t *testing.T) {
	client := NewClient(nil)

	output, err := client.DeleteMessageBatch(context.Background(), &awssqs.DeleteMessageBatchInput{
		QueueUrl: aws.String("queues:jobs-queue"),
		Entries: []types.DeleteMessageBatchRequestEntry{
			{Id: aws.String("id-1"), ReceiptHandle: aws.String("r-1")},
			{Id: aws.String("id-2"), ReceiptHandle: aws.String("r-2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, output.Successful, 2)
	require.Empty(t, output.Failed)
	require.Equal(t, "id-1", aws.ToString(output.Successful[0].Id))
	require.Equal(t, "id-2", aws.ToString(output.Successful[1].Id))
}

func TestDecodeMessageAssignsSyntheticReceipt(t *testing.T) {
	msg, err := decodeMessage(`{"id":"abc","body":"payload"}`)
	require.NoError(t, err)
	require.Equal(t, "abc", aws.ToString(msg.MessageId))
	require.Equal(t, "payload", aws.ToString(msg.Body))
	require.NotEmpty(t, aws.ToString(msg.ReceiptHandle))

	other, err := decodeMessage(`{"id":"abc","body":"payload"}`)
	require.NoError(t, err)
	require.NotEqual(t, aws.ToString(msg.ReceiptHandle), aws.ToString(other.ReceiptHandle))
}
