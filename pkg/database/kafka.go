package database

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

// NewKafkaReader 確認 broker 可連線後建立 domain event consumer group reader
func NewKafkaReader(ctx context.Context, k KafkaConnection) (*kafka.Reader, error) {
	if len(k.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if k.GroupID == "" {
		return nil, errors.New("kafka group id is empty, commits need a consumer group")
	}

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	err := withRetry(ctx, "kafka", k.Retry, func(ctx context.Context) error {
		conn, err := dialer.DialContext(ctx, "tcp", k.Brokers[0])
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		return nil, err
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     k.Brokers,
		Topic:       k.Topic,
		GroupID:     k.GroupID,
		Dialer:      dialer,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	}), nil
}
