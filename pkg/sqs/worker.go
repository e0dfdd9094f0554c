package sqs

import (
	"context"
	"errors"
	"sync"

	"sqs-utils/pkg/log"
)

// HandlerFunc defines a function that handles a received Message
type HandlerFunc func(msg Message) error

// HandleMessage implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(msg Message) error {
	return f(msg)
}

// Handler defines an interface that processes a received Message
type Handler interface {
	HandleMessage(msg Message) error
}

// LogLevel represents the logging level for the Worker
type LogLevel int

const (
	// Silent routes all worker logs to debug level
	Silent LogLevel = iota
	// ErrorLevel logs only errors
	ErrorLevel
	// InfoLevel logs informational and error messages
	InfoLevel
)

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	MaxNumberOfMessages int32
	WaitTimeSeconds     int32
	HideForSeconds      int32
	PoolSize            int
	LogLevel            LogLevel
}

// Worker polls a queue through the facade and acknowledges messages whose
// handler completed without error.
type Worker struct {
	queue               *Queue
	queueName           string
	maxNumberOfMessages int32
	waitTimeSeconds     int32
	hideForSeconds      int32
	poolSize            int
	logLevel            LogLevel
	handler             Handler
}

// NewWorker creates and returns a new Worker.
//
// If the provided WorkerConfig is nil or its fields are zero,
// the following defaults will be used:
//   - MaxNumberOfMessages: 10
//   - WaitTimeSeconds: 20
//   - HideForSeconds: 3600
//   - PoolSize: 1
//   - LogLevel: Silent
//
// Validations:
//   - MaxNumberOfMessages must be between 1 and 10.
//   - WaitTimeSeconds must be between 1 and 20.
//   - PoolSize must be greater than 0.
//
// The queue name is resolved once here so that a nonexistent queue fails
// fast; the facade still re-resolves on every poll.
func NewWorker(ctx context.Context, queue *Queue, queueName string, handler Handler, config *WorkerConfig) (*Worker, error) {
	var maxMessages int32 = 10
	var waitTime int32 = 20
	var hideFor int32 = 3600
	poolSize := 1
	var logLevel LogLevel = Silent

	if config != nil {
		if config.MaxNumberOfMessages != 0 {
			maxMessages = config.MaxNumberOfMessages
		}
		if config.WaitTimeSeconds != 0 {
			waitTime = config.WaitTimeSeconds
		}
		if config.HideForSeconds != 0 {
			hideFor = config.HideForSeconds
		}
		if config.PoolSize != 0 {
			poolSize = config.PoolSize
		}
		logLevel = config.LogLevel
	}

	if maxMessages < 1 || maxMessages > 10 {
		return nil, errors.New("maxNumberOfMessages must be between 1 and 10")
	}
	if waitTime < 1 || waitTime > 20 {
		return nil, errors.New("waitTimeSeconds must be between 1 and 20")
	}
	if poolSize < 1 {
		return nil, errors.New("poolSize must be greater than 0")
	}

	if _, err := queue.resolveQueueURL(ctx, queueName); err != nil {
		return nil, err
	}

	return &Worker{
		queue:               queue,
		queueName:           queueName,
		maxNumberOfMessages: maxMessages,
		waitTimeSeconds:     waitTime,
		hideForSeconds:      hideFor,
		poolSize:            poolSize,
		logLevel:            logLevel,
		handler:             handler,
	}, nil
}

// Start begins polling messages and processing them concurrently.
// It will spawn PoolSize number of pollers that keep receiving messages
// until the provided context is canceled.
func (w *Worker) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.pollMessages(ctx)
		}()
	}

	wg.Wait()
}

func (w *Worker) pollMessages(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			messages, err := w.queue.ReceiveManyWithReceipts(ctx, w.queueName, &ReceiveConfig{
				HideForSeconds: w.hideForSeconds,
				PollForSeconds: w.waitTimeSeconds,
				MaxBatchSize:   w.maxNumberOfMessages,
			})
			if err != nil {
				w.logf(ErrorLevel, "failed to receive messages: %v", err)
				continue
			}

			for _, msg := range messages {
				go w.handleMessage(ctx, msg)
			}
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg Message) {
	if err := w.handler.HandleMessage(msg); err != nil {
		w.logf(ErrorLevel, "error processing message %s: %v", SHA1Identity(msg.Body), err)
		return
	}

	removed, err := w.queue.RemoveBatch(ctx, w.queueName, []string{msg.Receipt})
	if err != nil {
		w.logf(ErrorLevel, "failed to remove message %s: %v", SHA1Identity(msg.Body), err)
		return
	}
	if !removed {
		w.logf(ErrorLevel, "message %s not removed: receipt no longer valid", SHA1Identity(msg.Body))
		return
	}
	w.logf(InfoLevel, "successfully removed message %s", SHA1Identity(msg.Body))
}

func (w *Worker) logf(level LogLevel, format string, v ...interface{}) {
	if w.logLevel == Silent {
		log.Debugf(format, v...)
	}
	if level == ErrorLevel && (w.logLevel == ErrorLevel || w.logLevel == InfoLevel) {
		log.Errorf(format, v...)
	}
	if level == InfoLevel && w.logLevel == InfoLevel {
		log.Infof(format, v...)
	}
}
