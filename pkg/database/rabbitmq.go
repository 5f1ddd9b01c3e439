package database

import (
	"context"

	"github.com/streadway/amqp"
)

// NewRabbitMQChannel dial, open a channel and declare the durable domain event queue
func NewRabbitMQChannel(ctx context.Context, d RabbitMQConnection) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	err := withRetry(ctx, "rabbitMQ", d.Retry, func(context.Context) error {
		c, err := amqp.Dial(d.URL)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var ch *amqp.Channel
	err = withRetry(ctx, "rabbitMQ channel", d.Retry, func(context.Context) error {
		c, err := conn.Channel()
		if err != nil {
			return err
		}
		if _, err := c.QueueDeclare(d.Queue, true, false, false, false, nil); err != nil {
			_ = c.Close()
			return err
		}
		// 一次只處理一則，確保 ack 順序
		if err := c.Qos(1, 0, false); err != nil {
			_ = c.Close()
			return err
		}
		ch = c
		return nil
	})
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
