package database

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Connection definition connect string + retry setting
type Connection struct {
	ConnectStr string
	Retry
}

// MongoDB realtime database handle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// MinIOConnection attachment bucket endpoint
type MinIOConnection struct {
	Endpoint   string
	User       string
	Password   string
	BucketName string
	UseSSL     bool
	Retry
}

// KafkaConnection domain event consumer group
type KafkaConnection struct {
	Brokers []string
	Topic   string
	GroupID string
	Retry
}

// RabbitMQConnection domain event queue
type RabbitMQConnection struct {
	URL   string
	Queue string
	Retry
}

// RedisConnection definition redis, sentinel when SentinelAddrs not empty
type RedisConnection struct {
	Addr          string
	MasterName    string
	SentinelAddrs []string
	DB            int
	Retry
}
