package main

import (
	"context"
	"time"

	infra "sqs-utils/internal/infra/aws"
	"sqs-utils/pkg/log"
	"sqs-utils/pkg/resource"
	sqslib "sqs-utils/pkg/sqs"
)

func main() {
	ctx := context.Background()

	client, err := infra.NewSqsClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create SQS client: %v", err)
	}

	queue := sqslib.New(client)

	handler := sqslib.HandlerFunc(func(msg sqslib.Message) error {
		log.Infof("Processing message: %s", msg.Body)

		// Process Logic

		return nil
	})

	// Optional Configs
	workerConfig := &sqslib.WorkerConfig{
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
		HideForSeconds:      300,
		PoolSize:            5,
		LogLevel:            sqslib.InfoLevel,
	}

	worker, err := sqslib.NewWorker(ctx, queue, resource.GetString("app.queue.name"), handler, workerConfig)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	worker.Start(ctx)
}
