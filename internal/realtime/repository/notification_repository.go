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

// NotificationRepository definition notifications collection, every query is recipient scoped
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindForRecipient(ctx context.Context, id string, recipient domain.ActorRef) (*domain.Notification, error)
	List(ctx context.Context, recipient domain.ActorRef, unreadOnly bool, skip, limit int) ([]*domain.Notification, int64, error)
	CountUnread(ctx context.Context, recipient domain.ActorRef) (int64, error)
	MarkRead(ctx context.Context, id string, recipient domain.ActorRef, at time.Time) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipient domain.ActorRef, at time.Time) (int64, error)
	Delete(ctx context.Context, id string, recipient domain.ActorRef) error
}

type notificationRepository struct {
	notificationsColl *mongo.Collection
}

// NewMongoNotificationRepository create notification repository
func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{notificationsColl: db.Collection(NotificationsCollection)}
}

func recipientFilter(recipient domain.ActorRef) bson.M {
	return bson.M{"recipient.id": recipient.ID, "recipient.kind": recipient.Kind}
}

// Create insert notification
func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	defer observe("notifications.create")()

	if _, err := r.notificationsColl.InsertOne(ctx, n); err != nil {
		return errprocess.Storage("insert notification", err)
	}
	return nil
}

// FindForRecipient a foreign id is indistinguishable from a missing one
func (r *notificationRepository) FindForRecipient(ctx context.Context, id string, recipient domain.ActorRef) (*domain.Notification, error) {
	filter := recipientFilter(recipient)
	filter["_id"] = id

	var n domain.Notification
	err := r.notificationsColl.FindOne(ctx, filter).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, errprocess.Storage("find notification", err)
	}
	return &n, nil
}

// List newest first page, total counts the filtered set
func (r *notificationRepository) List(ctx context.Context, recipient domain.ActorRef, unreadOnly bool, skip, limit int) ([]*domain.Notification, int64, error) {
	defer observe("notifications.list")()

	filter := recipientFilter(recipient)
	if unreadOnly {
		filter["is_read"] = false
	}
	total, err := r.notificationsColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errprocess.Storage("count notifications", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := r.notificationsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errprocess.Storage("list notifications", err)
	}
	list := []*domain.Notification{}
	if err := cursor.All(ctx, &list); err != nil {
		return nil, 0, errprocess.Storage("decode notifications", err)
	}
	return list, total, nil
}

// CountUnread unread notifications of recipient
func (r *notificationRepository) CountUnread(ctx context.Context, recipient domain.ActorRef) (int64, error) {
	filter := recipientFilter(recipient)
	filter["is_read"] = false
	n, err := r.notificationsColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errprocess.Storage("count unread notifications", err)
	}
	return n, nil
}

// MarkRead only the first call sets read_at
func (r *notificationRepository) MarkRead(ctx context.Context, id string, recipient domain.ActorRef, at time.Time) (*domain.Notification, error) {
	defer observe("notifications.mark_read")()

	filter := recipientFilter(recipient)
	filter["_id"] = id
	filter["is_read"] = false

	var n domain.Notification
	err := r.notificationsColl.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// 已讀或不存在
		return r.FindForRecipient(ctx, id, recipient)
	}
	if err != nil {
		return nil, errprocess.Storage("mark notification read", err)
	}
	return &n, nil
}

// MarkAllRead returns number of notifications changed
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient domain.ActorRef, at time.Time) (int64, error) {
	defer observe("notifications.mark_all_read")()

	filter := recipientFilter(recipient)
	filter["is_read"] = false
	res, err := r.notificationsColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return 0, errprocess.Storage("mark all notifications read", err)
	}
	return res.ModifiedCount, nil
}

// Delete recipient scoped delete
func (r *notificationRepository) Delete(ctx context.Context, id string, recipient domain.ActorRef) error {
	filter := recipientFilter(recipient)
	filter["_id"] = id
	res, err := r.notificationsColl.DeleteOne(ctx, filter)
	if err != nil {
		return errprocess.Storage("delete notification", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
