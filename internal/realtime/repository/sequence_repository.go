package repository

import (
	"context"

	errprocess "talent_realtime_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepository per chat insertion sequence
type SequenceRepository interface {
	Next(ctx context.Context, chatID string) (int64, error)
}

type sequenceRepository struct {
	countersColl *mongo.Collection
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// NewMongoSequenceRepository counters collection, one document per chat
func NewMongoSequenceRepository(db *mongo.Database) SequenceRepository {
	return &sequenceRepository{countersColl: db.Collection(CountersCollection)}
}

// Next atomic $inc, first call of a chat returns 1
func (r *sequenceRepository) Next(ctx context.Context, chatID string) (int64, error) {
	defer observe("counters.next")()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var c counter
	err := r.countersColl.FindOneAndUpdate(ctx,
		bson.M{"_id": "chat:" + chatID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, errprocess.Storage("next chat seq", err)
	}
	return c.Seq, nil
}
