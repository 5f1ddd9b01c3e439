package repository

import (
	"context"
	"fmt"

	"talent_realtime_service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes create indexes, pair_key unique index backs the one chat per pair rule
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ChatsCollection: {
			{Keys: bson.D{{Key: "pair_key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_pair_key")},
			{Keys: bson.D{{Key: "participants.id", Value: 1}, {Key: "participants.kind", Value: 1}, {Key: "last_activity_at", Value: -1}}},
		},
		MessagesCollection: {
			{Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "recipient.id", Value: 1}, {Key: "recipient.kind", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "recipient.id", Value: 1}, {Key: "recipient.kind", Value: 1}, {Key: "is_read", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		logger.Log.Debug("mongo indexes ready", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}
