package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/nikolayk812/lunchorder/internal/domain"
)

const publishQueueSize = 256

var (
	ErrPublisherBusy   = errors.New("kafka publisher queue is full, event dropped")
	ErrPublisherClosed = errors.New("kafka publisher is closed")
)

type kafkaEvent struct {
	Topic      string    `json:"topic"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher writes change events to Kafka, one topic per change topic: <prefix>.catalog and <prefix>.orders.
// Notify only enqueues; delivery failures are logged, never returned to the caller.
type Publisher struct {
	producer sarama.AsyncProducer
	prefix   string
	logger   *slog.Logger

	queue      chan *sarama.ProducerMessage
	forwarding sync.WaitGroup
	draining   sync.WaitGroup
	mutex      sync.RWMutex
	closed     bool
}

func NewPublisher(brokers []string, prefix string, logger *slog.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewAsyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("sarama.NewAsyncProducer: %w", err)
	}

	return NewPublisherWithProducer(producer, prefix, publishQueueSize, logger), nil
}

// NewPublisherWithProducer starts forwarding to producer. The producer must report
// errors on its Errors channel and must not report successes.
func NewPublisherWithProducer(producer sarama.AsyncProducer, prefix string, queueSize int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{
		producer: producer,
		prefix:   prefix,
		logger:   logger,
		queue:    make(chan *sarama.ProducerMessage, max(queueSize, 1)),
	}

	if producer != nil {
		p.forwarding.Add(1)
		go p.forward()
		p.draining.Add(1)
		go p.drainErrors()
	}

	return p
}

func (p *Publisher) TopicName(topic domain.ChangeTopic) string {
	if p.prefix == "" {
		return string(topic)
	}
	return p.prefix + "." + string(topic)
}

// Notify enqueues the event and returns without waiting for the broker.
func (p *Publisher) Notify(_ context.Context, event domain.ChangeEvent) error {
	data, err := json.Marshal(kafkaEvent{
		Topic:      string(event.Topic),
		Action:     string(event.Action),
		EntityID:   event.EntityID.String(),
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	topic := p.TopicName(event.Topic)

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.EntityID.String()),
		Value: sarama.ByteEncoder(data),
	}

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.closed || p.producer == nil {
		return fmt.Errorf("topic[%s]: %w", topic, ErrPublisherClosed)
	}

	select {
	case p.queue <- msg:
	default:
		return fmt.Errorf("topic[%s]: %w", topic, ErrPublisherBusy)
	}

	p.logger.Debug("change event queued",
		"method", "Publisher.Notify",
		"topic", topic,
		"entityID", event.EntityID)

	return nil
}

func (p *Publisher) forward() {
	defer p.forwarding.Done()

	for msg := range p.queue {
		p.producer.Input() <- msg
	}
}

func (p *Publisher) drainErrors() {
	defer p.draining.Done()

	for perr := range p.producer.Errors() {
		topic := ""
		if perr.Msg != nil {
			topic = perr.Msg.Topic
		}
		p.logger.Warn("change event not delivered",
			"method", "Publisher.drainErrors",
			"topic", topic,
			"error", perr.Err)
	}
}

// Close flushes queued events, shuts the producer down and waits for the
// error drain to finish. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mutex.Unlock()

	if p.producer == nil {
		return nil
	}

	// forward must stop before the producer input is closed
	p.forwarding.Wait()

	var closeErr error
	if err := p.producer.Close(); err != nil {
		closeErr = fmt.Errorf("producer.Close: %w", err)
	}

	p.draining.Wait()

	return closeErr
}
