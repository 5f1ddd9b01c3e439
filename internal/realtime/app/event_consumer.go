package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"talent_realtime_service/internal/realtime/domain"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Notifier subset of NotificationUseCase used by event consumers
type Notifier interface {
	Notify(ctx context.Context, in domain.NotifyInput) (*domain.Notification, error)
}

// EventConsumer domain event ingress
type EventConsumer interface {
	Run(ctx context.Context) error
}

// consume result labels
const (
	resultOK        = "ok"
	resultMalformed = "malformed"
	resultFailed    = "failed"
)

var errMalformedEvent = errors.New("malformed domain event")

// handleEvent decode and notify, malformed events are never retried
func handleEvent(ctx context.Context, notifier Notifier, body []byte) error {
	var evt domain.DomainEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	in := evt.NotifyInput()
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	_, err := notifier.Notify(ctx, in)
	return err
}

// KafkaReader subset of *kafka.Reader
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventConsumer consumer group reader, commit after processing
type KafkaEventConsumer struct {
	reader   KafkaReader
	notifier Notifier
}

// NewKafkaEventConsumer create kafka consumer
func NewKafkaEventConsumer(reader KafkaReader, notifier Notifier) *KafkaEventConsumer {
	return &KafkaEventConsumer{reader: reader, notifier: notifier}
}

// Run until ctx done, notify failures are logged and committed (best effort)
func (c *KafkaEventConsumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	logger.Log.Info("kafka event consumer started")

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka fetch: %w", err)
		}

		result := resultOK
		if err := handleEvent(ctx, c.notifier, m.Value); err != nil {
			result = resultFailed
			if errors.Is(err, errMalformedEvent) {
				result = resultMalformed
			}
			logger.Log.Warn("kafka event dropped",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.String("result", result),
				zap.Error(err),
			)
		}
		metrics.EventsConsumed.WithLabelValues("kafka", result).Inc()

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Log.Error("kafka commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}
	}
}

// AMQPChannel subset of *amqp.Channel
type AMQPChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// RabbitEventConsumer manual ack consumer
type RabbitEventConsumer struct {
	channel  AMQPChannel
	queue    string
	notifier Notifier
}

// NewRabbitEventConsumer create rabbitmq consumer
func NewRabbitEventConsumer(channel AMQPChannel, queue string, notifier Notifier) *RabbitEventConsumer {
	return &RabbitEventConsumer{channel: channel, queue: queue, notifier: notifier}
}

// Run until ctx done or the delivery channel closes
func (c *RabbitEventConsumer) Run(ctx context.Context) error {
	defer c.channel.Close()

	msgs, err := c.channel.Consume(
		c.queue, // 使用依賴注入進來的 queue name
		"",      // consumer tag，留空由系統分配
		false,   // autoAck 為 false，使用手動確認
		false,   // exclusive
		false,   // noLocal
		false,   // noWait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}
	logger.Log.Info("rabbitmq event consumer started", zap.String("queue", c.queue))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("rabbitmq delivery channel closed")
				return nil
			}
			c.handle(ctx, d)
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *RabbitEventConsumer) handle(ctx context.Context, d amqp.Delivery) {
	err := handleEvent(ctx, c.notifier, d.Body)
	switch {
	case err == nil:
		metrics.EventsConsumed.WithLabelValues("rabbitmq", resultOK).Inc()
		if err := d.Ack(false); err != nil {
			logger.Log.Error("ack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		}
	case errors.Is(err, errMalformedEvent):
		// 格式錯誤重送也不會成功
		metrics.EventsConsumed.WithLabelValues("rabbitmq", resultMalformed).Inc()
		logger.Log.Warn("rabbitmq event malformed", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		if err := d.Nack(false, false); err != nil {
			logger.Log.Error("nack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		}
	default:
		metrics.EventsConsumed.WithLabelValues("rabbitmq", resultFailed).Inc()
		requeue := errprocess.IsKind(err, errprocess.KindStorageUnavailable)
		logger.Log.Warn("rabbitmq event failed", zap.Uint64("tag", d.DeliveryTag), zap.Bool("requeue", requeue), zap.Error(err))
		if err := d.Nack(false, requeue); err != nil {
			logger.Log.Error("nack failed", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
		}
	}
}
