package repository

import (
	"context"
	"errors"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	errprocess "talent_realtime_service/pkg/err"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition chat_messages collection
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, chatID, messageID string) (*domain.Message, error)
	ListBefore(ctx context.Context, chatID string, before *domain.Cursor, limit int) ([]*domain.Message, error)
	CountUnread(ctx context.Context, chatID string, reader domain.ActorRef) (int64, error)
	MarkAllRead(ctx context.Context, chatID string, reader domain.ActorRef, at time.Time) ([]string, error)
	MarkRead(ctx context.Context, chatID string, messageIDs []string, reader domain.ActorRef, at time.Time) ([]string, error)
}

type messageRepository struct {
	messagesColl *mongo.Collection
	seq          SequenceRepository
}

// NewMongoMessageRepository create message repository, seq assigns per chat order
func NewMongoMessageRepository(db *mongo.Database, seq SequenceRepository) MessageRepository {
	return &messageRepository{
		messagesColl: db.Collection(MessagesCollection),
		seq:          seq,
	}
}

// Insert assign seq and server time then insert
func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	defer observe("messages.insert")()

	seq, err := r.seq.Next(ctx, msg.ChatID)
	if err != nil {
		return err
	}
	msg.Seq = seq
	msg.CreatedAt = domain.Now()
	if msg.ReadBy == nil {
		msg.ReadBy = []domain.ReadReceipt{}
	}

	if _, err := r.messagesColl.InsertOne(ctx, msg); err != nil {
		return errprocess.Storage("insert message", err)
	}
	return nil
}

// FindByID message must belong to chat
func (r *messageRepository) FindByID(ctx context.Context, chatID, messageID string) (*domain.Message, error) {
	var msg domain.Message
	err := r.messagesColl.FindOne(ctx, bson.M{"_id": messageID, "chat_id": chatID}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, errprocess.Storage("find message", err)
	}
	return &msg, nil
}

// ListBefore newest first, strictly older than cursor
func (r *messageRepository) ListBefore(ctx context.Context, chatID string, before *domain.Cursor, limit int) ([]*domain.Message, error) {
	defer observe("messages.list")()

	filter := bson.M{"chat_id": chatID}
	if before != nil {
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": before.CreatedAt}},
			bson.M{"created_at": before.CreatedAt, "seq": bson.M{"$lt": before.Seq}},
		}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.messagesColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, errprocess.Storage("list messages", err)
	}
	msgs := []*domain.Message{}
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, errprocess.Storage("decode messages", err)
	}
	return msgs, nil
}

// unreadFilter messages of chat not sent by reader and not yet read by reader
func unreadFilter(chatID string, reader domain.ActorRef) bson.M {
	return bson.M{
		"chat_id": chatID,
		"$nor": bson.A{
			bson.M{"sender.id": reader.ID, "sender.kind": reader.Kind},
		},
		"read_by": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"actor.id":   reader.ID,
			"actor.kind": reader.Kind,
		}}},
	}
}

// CountUnread count unread for reader
func (r *messageRepository) CountUnread(ctx context.Context, chatID string, reader domain.ActorRef) (int64, error) {
	defer observe("messages.count_unread")()

	n, err := r.messagesColl.CountDocuments(ctx, unreadFilter(chatID, reader))
	if err != nil {
		return 0, errprocess.Storage("count unread", err)
	}
	return n, nil
}

// MarkAllRead mark every unread message of chat, returns ids marked
func (r *messageRepository) MarkAllRead(ctx context.Context, chatID string, reader domain.ActorRef, at time.Time) ([]string, error) {
	return r.markRead(ctx, unreadFilter(chatID, reader), reader, at)
}

// MarkRead mark the given ids, own and already read messages are skipped
func (r *messageRepository) MarkRead(ctx context.Context, chatID string, messageIDs []string, reader domain.ActorRef, at time.Time) ([]string, error) {
	if len(messageIDs) == 0 {
		return []string{}, nil
	}
	filter := unreadFilter(chatID, reader)
	filter["_id"] = bson.M{"$in": messageIDs}
	return r.markRead(ctx, filter, reader, at)
}

func (r *messageRepository) markRead(ctx context.Context, filter bson.M, reader domain.ActorRef, at time.Time) ([]string, error) {
	defer observe("messages.mark_read")()

	cursor, err := r.messagesColl.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errprocess.Storage("find unread", err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errprocess.Storage("decode unread", err)
	}
	// 逐筆條件更新，只回傳這次真的標記到的 id，並發的另一個讀取不會重複算到
	receipt := bson.M{"$push": bson.M{"read_by": domain.ReadReceipt{Actor: reader, ReadAt: at}}}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		filter["_id"] = row.ID
		res, err := r.messagesColl.UpdateOne(ctx, filter, receipt)
		if err != nil {
			return nil, errprocess.Storage("mark read", err)
		}
		if res.ModifiedCount > 0 {
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}
