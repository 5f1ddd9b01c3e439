package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoAppName = "realtime_service"

// NewMongoDB connect and ping primary, chats / messages / notifications live in dbName
func NewMongoDB(ctx context.Context, c Connection, dbName string) (*MongoDB, error) {
	clientOpts := options.Client().
		ApplyURI(c.ConnectStr).
		SetAppName(mongoAppName).
		SetServerSelectionTimeout(5 * time.Second)

	var client *mongo.Client
	err := withRetry(ctx, "mongoDB", c.Retry, func(ctx context.Context) error {
		cli, err := mongo.Connect(ctx, clientOpts)
		if err != nil {
			return err
		}
		if err := cli.Ping(ctx, readpref.Primary()); err != nil {
			_ = cli.Disconnect(ctx)
			return err
		}
		client = cli
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MongoDB{Client: client, Database: client.Database(dbName)}, nil
}

// Ping check mongo primary reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnect
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
