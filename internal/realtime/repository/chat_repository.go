package repository

import (
	"context"
	"errors"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	errprocess "talent_realtime_service/pkg/err"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository definition chats collection
type ChatRepository interface {
	FindOrCreate(ctx context.Context, a, b domain.ActorRef) (*domain.Chat, bool, error)
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	ListByParticipant(ctx context.Context, actor domain.ActorRef) ([]*domain.Chat, error)
	AdvanceLastMessage(ctx context.Context, chatID, messageID string, at time.Time, seq int64) (bool, error)
}

type chatRepository struct {
	chatsColl *mongo.Collection
}

// NewMongoChatRepository create new mongo chat
func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{
		chatsColl: db.Collection(ChatsCollection),
	}
}

// FindOrCreate upsert by pair_key, returns created=true only for the insert winner
func (r *chatRepository) FindOrCreate(ctx context.Context, a, b domain.ActorRef) (*domain.Chat, bool, error) {
	defer observe("chats.find_or_create")()

	pairKey := domain.PairKey(a, b)
	now := domain.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":              uuid.New().String(),
			"participants":     []domain.ActorRef{a, b},
			"last_activity_at": now,
			"last_seq":         int64(0),
			"version":          int64(0),
			"created_at":       now,
		},
	}

	created := false
	res, err := r.chatsColl.UpdateOne(ctx, bson.M{"pair_key": pairKey}, update, options.Update().SetUpsert(true))
	switch {
	case err == nil:
		created = res.UpsertedCount > 0
	case mongo.IsDuplicateKeyError(err):
		// 兩邊同時建立，另一個 upsert 已經贏了
	default:
		return nil, false, errprocess.Storage("upsert chat", err)
	}

	chat, err := r.findByPair(ctx, pairKey)
	if err != nil {
		return nil, false, err
	}
	return chat, created, nil
}

// FindByID find chat by id
func (r *chatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	defer observe("chats.find_by_id")()
	return r.findOne(ctx, bson.M{"_id": chatID})
}

// findByPair more than one document for a pair is a consistency bug
func (r *chatRepository) findByPair(ctx context.Context, pairKey string) (*domain.Chat, error) {
	cursor, err := r.chatsColl.Find(ctx, bson.M{"pair_key": pairKey}, options.Find().SetLimit(2))
	if err != nil {
		return nil, errprocess.Storage("find chat by pair", err)
	}
	var chats []*domain.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, errprocess.Storage("decode chats", err)
	}
	switch len(chats) {
	case 0:
		return nil, domain.ErrChatNotFound
	case 1:
		return chats[0], nil
	default:
		return nil, domain.ErrDuplicateChat
	}
}

// ListByParticipant chats of actor, most recent activity first
func (r *chatRepository) ListByParticipant(ctx context.Context, actor domain.ActorRef) ([]*domain.Chat, error) {
	defer observe("chats.list")()

	filter := bson.M{
		"participants": bson.M{"$elemMatch": bson.M{"id": actor.ID, "kind": actor.Kind}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "last_activity_at", Value: -1}})
	cursor, err := r.chatsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, errprocess.Storage("list chats", err)
	}
	chats := []*domain.Chat{}
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, errprocess.Storage("decode chats", err)
	}
	return chats, nil
}

// AdvanceLastMessage move the last message pointer forward only, single document conditional update
func (r *chatRepository) AdvanceLastMessage(ctx context.Context, chatID, messageID string, at time.Time, seq int64) (bool, error) {
	defer observe("chats.advance")()

	filter := bson.M{
		"_id": chatID,
		"$or": bson.A{
			bson.M{"last_activity_at": bson.M{"$lt": at}},
			bson.M{"last_activity_at": at, "last_seq": bson.M{"$lt": seq}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"last_message_id":  messageID,
			"last_activity_at": at,
			"last_seq":         seq,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.chatsColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, errprocess.Storage("advance chat pointer", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *chatRepository) findOne(ctx context.Context, filter bson.M) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.chatsColl.FindOne(ctx, filter).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, errprocess.Storage("find chat", err)
	}
	return &chat, nil
}
