package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nexus-advisory/nexus-intelligence/internal/config"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer is closed")

// maxEventBytes bounds a single event payload. NSIL documents are
// compact; anything larger indicates a bug upstream.
const maxEventBytes = 1024 * 1024

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics tracks publish outcomes.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer publishes pipeline events. It satisfies the intelligence
// service's EventPublisher interface.
type Producer struct {
	writer  writerInterface
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ProducerMetrics
}

// NewProducer builds a producer from the Kafka configuration. Messages
// with the same key land on the same partition, so events for one case
// stay ordered.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers are required")
	}

	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = 100 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  retries + 1,
		BatchTimeout: batchTimeout,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
	}

	return &Producer{
		writer:  writer,
		logger:  log.Named("kafka-producer"),
		metrics: &ProducerMetrics{},
	}, nil
}

func newProducerWithWriter(w writerInterface, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log, metrics: &ProducerMetrics{}}
}

// Publish sends one event and waits for broker acknowledgement.
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic is required")
	}
	if len(value) == 0 {
		return errors.New(errors.ErrCodeValidation, "event payload is empty")
	}
	if len(value) > maxEventBytes {
		return errors.New(errors.ErrCodeValidation, "event payload exceeds size limit")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish event")
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(value)))

	p.logger.Debug("Event published",
		logging.String("topic", topic),
		logging.String("key", key),
		logging.Duration("latency", time.Since(start)),
	)
	return nil
}

// Metrics returns a snapshot of publish counters.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close flushes buffered messages and shuts the writer down. Idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed",
		logging.Int64("sent", p.metrics.MessagesSent.Load()),
		logging.Int64("failed", p.metrics.MessagesFailed.Load()),
	)
	return err
}
