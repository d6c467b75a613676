package kafka

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	kafkago "github.com/segmentio/kafka-go"
)

var ErrProducerClosed = errors.New("kafka: producer is closed")

// Producer interface defines the methods that a Kafka producer must implement
type Producer interface {
	// Produce sends messages to Kafka
	Produce(ctx context.Context, msgs []Message) error
	// Close closes the producer
	Close() error
}

type kafkaProducer struct {
	writer *kafkago.Writer
	cfg    *Config
	closed atomic.Bool
}

// New creates a new Kafka producer
func New(cfg *Config) (Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{}, // 以key(buyer id)分區，同買家事件保序
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Async:        false,

		MaxAttempts: cfg.RetryAttempts,

		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			log.Printf("kafka producer error: "+msg, args...)
		}),

		Compression: kafkago.Snappy,
	}

	return &kafkaProducer{
		writer: writer,
		cfg:    cfg,
	}, nil
}

// Produce 同步發送消息，會block到所有消息都寫入
func (p *kafkaProducer) Produce(ctx context.Context, msgs []Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	if len(msgs) == 0 {
		return nil
	}

	kafkaMsgs := make([]kafkago.Message, len(msgs))
	for i, msg := range msgs {
		kafkaMsgs[i] = msg.ToKafkaMessage()
	}

	return p.writer.WriteMessages(ctx, kafkaMsgs...)
}

// Close implements the Producer interface
func (p *kafkaProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
