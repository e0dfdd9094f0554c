package main

import (
	"context"

	"sqs-utils/pkg/log"
	"sqs-utils/pkg/redisqueue"
	"sqs-utils/pkg/resource"
	sqslib "sqs-utils/pkg/sqs"
)

// The facade runs unchanged on the Redis backend, which is handy for local
// development without AWS credentials.
func main() {
	ctx := context.Background()

	client := redisqueue.NewClient(&redisqueue.Config{
		Addr:      resource.GetString("app.redis.address"),
		Password:  resource.GetString("app.redis.password"),
		Database:  resource.GetInt("app.redis.database"),
		KeyPrefix: resource.GetString("app.redis.key-prefix"),
	})
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	queue := sqslib.New(client)
	queueName := resource.GetString("app.queue.name")

	ok, err := queue.SendBatch(ctx, queueName, []string{"alpha", "beta"}, nil)
	if err != nil {
		log.Fatalf("Failed to send batch: %v", err)
	}
	log.Infof("Batch fully sent: %t", ok)

	body, present, err := queue.ReceiveOne(ctx, queueName, &sqslib.ReceiveConfig{PollForSeconds: 5})
	if err != nil {
		log.Fatalf("Failed to receive: %v", err)
	}
	if !present {
		log.Infof("Queue is empty")
		return
	}
	log.Infof("Received message: %s", body)
}
