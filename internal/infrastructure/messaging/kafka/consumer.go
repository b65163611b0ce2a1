package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nexus-advisory/nexus-intelligence/internal/config"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer is already running")

// readerInterface abstracts kafka.Reader for testing. kafka.Reader is
// safe for concurrent FetchMessage calls, which the worker pool relies
// on.
type readerInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerMetrics tracks consumption outcomes.
type ConsumerMetrics struct {
	MessagesConsumed  atomic.Int64
	MessagesProcessed atomic.Int64
	MessagesFailed    atomic.Int64
	MessagesRetried   atomic.Int64
}

// Consumer runs a consumer-group worker pool and dispatches messages
// to per-topic handlers. Messages that still fail after the retry
// budget are logged and committed so one poison message cannot stall
// the partition.
type Consumer struct {
	reader      readerInterface
	logger      logging.Logger
	concurrency int
	maxRetries  int
	backoff     time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	metrics *ConsumerMetrics
}

// NewConsumer builds a consumer-group reader over the given topics.
func NewConsumer(kcfg config.KafkaConfig, wcfg config.WorkerConfig, topics []string, log logging.Logger) (*Consumer, error) {
	if len(kcfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers are required")
	}
	if kcfg.GroupID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "kafka group id is required")
	}
	if len(topics) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "at least one topic is required")
	}

	commitInterval := wcfg.CommitInterval
	if commitInterval == 0 {
		commitInterval = time.Second
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        kcfg.Brokers,
		GroupID:        kcfg.GroupID,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10 * 1024 * 1024,
		CommitInterval: commitInterval,
		StartOffset:    kafka.FirstOffset,
	})

	return newConsumerWithReader(reader, wcfg, log), nil
}

func newConsumerWithReader(r readerInterface, wcfg config.WorkerConfig, log logging.Logger) *Consumer {
	concurrency := wcfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	maxRetries := wcfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := wcfg.RetryBackoff
	if backoff == 0 {
		backoff = time.Second
	}

	return &Consumer{
		reader:      r,
		logger:      log.Named("kafka-consumer"),
		concurrency: concurrency,
		maxRetries:  maxRetries,
		backoff:     backoff,
		handlers:    make(map[string]Handler),
		metrics:     &ConsumerMetrics{},
	}
}

// Subscribe registers the handler for a topic. Must be called before
// Start; later registrations take effect for subsequent messages.
func (c *Consumer) Subscribe(topic string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = handler
}

// Start launches the worker pool. It returns immediately; workers run
// until Stop is called or the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for i := 0; i < c.concurrency; i++ {
		c.wg.Add(1)
		go c.worker(ctx)
	}

	c.logger.Info("Kafka consumer started", logging.Int("workers", c.concurrency))
	return nil
}

// Stop cancels the workers, waits for in-flight messages, and closes
// the reader.
func (c *Consumer) Stop() error {
	if !c.running.Swap(false) {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	err := c.reader.Close()
	c.logger.Info("Kafka consumer stopped",
		logging.Int64("processed", c.metrics.MessagesProcessed.Load()),
		logging.Int64("failed", c.metrics.MessagesFailed.Load()),
	)
	return err
}

// Metrics returns a snapshot of consumption counters.
func (c *Consumer) Metrics() (consumed, processed, failed int64) {
	return c.metrics.MessagesConsumed.Load(), c.metrics.MessagesProcessed.Load(), c.metrics.MessagesFailed.Load()
}

func (c *Consumer) worker(ctx context.Context) {
	defer c.wg.Done()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Failed to fetch message", logging.Err(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		c.metrics.MessagesConsumed.Add(1)
		c.handleMessage(ctx, m)

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("Failed to commit offset",
				logging.String("topic", m.Topic),
				logging.Int64("offset", m.Offset),
				logging.Err(err),
			)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, m kafka.Message) {
	c.mu.RLock()
	handler, ok := c.handlers[m.Topic]
	c.mu.RUnlock()

	if !ok {
		c.logger.Warn("No handler for topic, skipping", logging.String("topic", m.Topic))
		return
	}

	msg := toMessage(m)
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.metrics.MessagesRetried.Add(1)
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return
			}
		}
		if err = handler(ctx, msg); err == nil {
			c.metrics.MessagesProcessed.Add(1)
			return
		}
	}

	c.metrics.MessagesFailed.Add(1)
	c.logger.Error("Message dropped after retries",
		logging.String("topic", m.Topic),
		logging.Int64("offset", m.Offset),
		logging.Int("attempts", c.maxRetries+1),
		logging.Err(err),
	)
}

func toMessage(m kafka.Message) *Message {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Headers:   headers,
		Timestamp: m.Time,
	}
}
