package app

import (
	"context"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// Pusher deliver events to an actor's live handles
type Pusher interface {
	Reachable(actor domain.ActorRef) bool
	ToActor(ctx context.Context, actor domain.ActorRef, evt domain.WSResponse, skip ...string) int
}

// NotificationUseCase durable notifications + best-effort push
type NotificationUseCase struct {
	repo   repository.NotificationRepository
	pusher Pusher
}

// NewNotificationUseCase init notification use case
func NewNotificationUseCase(repo repository.NotificationRepository, pusher Pusher) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, pusher: pusher}
}

// Notify persist first, then push new_notification and unread_count when the recipient is reachable
func (uc *NotificationUseCase) Notify(ctx context.Context, in domain.NotifyInput) (*domain.Notification, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		ID:            uuid.New().String(),
		Recipient:     in.Recipient,
		Sender:        in.Sender,
		Type:          in.Type,
		Title:         in.Title,
		Message:       in.Message,
		RelatedEntity: in.RelatedEntity,
		CreatedAt:     domain.Now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()

	if !uc.pusher.Reachable(n.Recipient) {
		return n, nil
	}
	if uc.pusher.ToActor(ctx, n.Recipient, domain.Push(domain.NewNotification, n)) > 0 {
		metrics.NotificationsPushed.Inc()
	}
	uc.pushUnreadCount(ctx, n.Recipient)
	return n, nil
}

// NotifyBestEffort Notify for triggering actions, errors are logged and swallowed
func (uc *NotificationUseCase) NotifyBestEffort(ctx context.Context, in domain.NotifyInput) {
	if _, err := uc.Notify(ctx, in); err != nil {
		logger.Log.Warn("notify failed",
			zap.String("recipient", in.Recipient.Key()),
			zap.String("type", string(in.Type)),
			zap.Error(err),
		)
	}
}

// MarkRead idempotent, read_at of an already read notification is unchanged
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string, caller domain.ActorRef) (*domain.Notification, error) {
	n, err := uc.repo.MarkRead(ctx, id, caller, domain.Now())
	if err != nil {
		return nil, err
	}
	uc.pushUnreadCount(ctx, caller)
	return n, nil
}

// MarkAllRead returns number of notifications changed
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, caller domain.ActorRef) (int64, error) {
	n, err := uc.repo.MarkAllRead(ctx, caller, domain.Now())
	if err != nil {
		return 0, err
	}
	uc.pushUnreadCount(ctx, caller)
	return n, nil
}

// Delete recipient scoped delete
func (uc *NotificationUseCase) Delete(ctx context.Context, id string, caller domain.ActorRef) error {
	if err := uc.repo.Delete(ctx, id, caller); err != nil {
		return err
	}
	uc.pushUnreadCount(ctx, caller)
	return nil
}

// List page starts from 1
func (uc *NotificationUseCase) List(ctx context.Context, caller domain.ActorRef, unreadOnly bool, page, limit int) (*domain.NotificationPage, error) {
	if page <= 0 {
		page = 1
	}
	limit = pkg.Clamp(limit, defaultNotificationLimit, maxNotificationLimit)

	list, total, err := uc.repo.List(ctx, caller, unreadOnly, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &domain.NotificationPage{
		Notifications: list,
		Page:          page,
		Limit:         limit,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

// UnreadCount unread notifications of caller
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, caller domain.ActorRef) (int64, error) {
	return uc.repo.CountUnread(ctx, caller)
}

func (uc *NotificationUseCase) pushUnreadCount(ctx context.Context, actor domain.ActorRef) {
	if !uc.pusher.Reachable(actor) {
		return
	}
	count, err := uc.repo.CountUnread(ctx, actor)
	if err != nil {
		logger.Log.Warn("count unread notifications failed", zap.String("actor", actor.Key()), zap.Error(err))
		return
	}
	uc.pusher.ToActor(ctx, actor, domain.Push(domain.UnreadCount, domain.UnreadCountPayload{Count: count}))
}
