package main

import (
	"context"

	"sqs-utils/configs"
	infra "sqs-utils/internal/infra/aws"
	"sqs-utils/pkg/log"
	"sqs-utils/pkg/resource"
	sqslib "sqs-utils/pkg/sqs"
)

func main() {
	ctx := context.Background()
	log.Infof("%s starting", configs.Env.ApplicationName)

	client, err := infra.NewSqsClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create SQS client: %v", err)
	}

	queue := sqslib.New(client)
	queueName := resource.GetString("app.queue.name")

	// Send a batch; entry ids default to the SHA-1 of each body
	ok, err := queue.SendBatch(ctx, queueName, []string{"first", "second", "third"}, nil)
	if err != nil {
		log.Fatalf("Failed to send batch: %v", err)
	}
	log.Infof("Batch fully sent: %t", ok)

	// Receive with receipts so the messages can be acknowledged
	messages, err := queue.ReceiveManyWithReceipts(ctx, queueName, &sqslib.ReceiveConfig{
		HideForSeconds: 300,
		PollForSeconds: 10,
		MaxBatchSize:   10,
	})
	if err != nil {
		log.Fatalf("Failed to receive: %v", err)
	}

	receipts := make([]string, len(messages))
	for i, msg := range messages {
		log.Infof("Received message: %s", msg.Body)
		receipts[i] = msg.Receipt
	}

	// Acknowledge everything that was received
	ok, err = queue.RemoveBatch(ctx, queueName, receipts)
	if err != nil {
		log.Fatalf("Failed to remove batch: %v", err)
	}
	log.Infof("Batch fully removed: %t", ok)
}
