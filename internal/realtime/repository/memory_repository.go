package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"talent_realtime_service/internal/realtime/domain"

	"github.com/google/uuid"
)

// MemoryChatRepository in memory ChatRepository, single process only
type MemoryChatRepository struct {
	mu     sync.Mutex
	byID   map[string]*domain.Chat
	byPair map[string]string
}

// NewMemoryChatRepository create empty repository
func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{byID: map[string]*domain.Chat{}, byPair: map[string]string{}}
}

// FindOrCreate one chat per pair
func (r *MemoryChatRepository) FindOrCreate(_ context.Context, a, b domain.ActorRef) (*domain.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.PairKey(a, b)
	if id, ok := r.byPair[key]; ok {
		c := *r.byID[id]
		return &c, false, nil
	}
	now := domain.Now()
	chat := &domain.Chat{
		ID:             uuid.New().String(),
		PairKey:        key,
		Participants:   []domain.ActorRef{a, b},
		LastActivityAt: now,
		CreatedAt:      now,
	}
	r.byID[chat.ID] = chat
	r.byPair[key] = chat.ID
	c := *chat
	return &c, true, nil
}

// FindByID find chat by id
func (r *MemoryChatRepository) FindByID(_ context.Context, chatID string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.byID[chatID]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	c := *chat
	return &c, nil
}

// ListByParticipant chats of actor, most recent first
func (r *MemoryChatRepository) ListByParticipant(_ context.Context, actor domain.ActorRef) ([]*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chats := []*domain.Chat{}
	for _, chat := range r.byID {
		if chat.HasParticipant(actor) {
			c := *chat
			chats = append(chats, &c)
		}
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].LastActivityAt.After(chats[j].LastActivityAt) })
	return chats, nil
}

// AdvanceLastMessage forward only
func (r *MemoryChatRepository) AdvanceLastMessage(_ context.Context, chatID, messageID string, at time.Time, seq int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.byID[chatID]
	if !ok {
		return false, nil
	}
	if at.Before(chat.LastActivityAt) || (at.Equal(chat.LastActivityAt) && seq <= chat.LastSeq) {
		return false, nil
	}
	chat.LastMessageID = messageID
	chat.LastActivityAt = at
	chat.LastSeq = seq
	chat.Version++
	return true, nil
}

// MemoryMessageRepository in memory MessageRepository
type MemoryMessageRepository struct {
	mu   sync.Mutex
	msgs map[string][]*domain.Message // chatID -> insertion order
	seq  map[string]int64
}

// NewMemoryMessageRepository create empty repository
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{msgs: map[string][]*domain.Message{}, seq: map[string]int64{}}
}

// Insert assign seq and server time
func (r *MemoryMessageRepository) Insert(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq[msg.ChatID]++
	msg.Seq = r.seq[msg.ChatID]
	msg.CreatedAt = domain.Now()
	if msg.ReadBy == nil {
		msg.ReadBy = []domain.ReadReceipt{}
	}
	stored := *msg
	stored.ReadBy = append([]domain.ReadReceipt{}, msg.ReadBy...)
	r.msgs[msg.ChatID] = append(r.msgs[msg.ChatID], &stored)
	return nil
}

// FindByID message of chat
func (r *MemoryMessageRepository) FindByID(_ context.Context, chatID, messageID string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs[chatID] {
		if m.ID == messageID {
			return copyMessage(m), nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

// ListBefore newest first, strictly older than cursor
func (r *MemoryMessageRepository) ListBefore(_ context.Context, chatID string, before *domain.Cursor, limit int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.Message, 0, len(r.msgs[chatID]))
	for _, m := range r.msgs[chatID] {
		if before != nil {
			c := &domain.Message{CreatedAt: before.CreatedAt, Seq: before.Seq}
			if !m.Before(c) {
				continue
			}
		}
		all = append(all, copyMessage(m))
	}
	sort.Slice(all, func(i, j int) bool { return all[j].Before(all[i]) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// CountUnread unread for reader
func (r *MemoryMessageRepository) CountUnread(_ context.Context, chatID string, reader domain.ActorRef) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs[chatID] {
		if !m.Sender.Equal(reader) && !m.IsReadBy(reader) {
			n++
		}
	}
	return n, nil
}

// MarkAllRead mark every unread message
func (r *MemoryMessageRepository) MarkAllRead(_ context.Context, chatID string, reader domain.ActorRef, at time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mark(chatID, nil, reader, at), nil
}

// MarkRead mark given ids
func (r *MemoryMessageRepository) MarkRead(_ context.Context, chatID string, messageIDs []string, reader domain.ActorRef, at time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(messageIDs) == 0 {
		return []string{}, nil
	}
	set := make(map[string]bool, len(messageIDs))
	for _, id := range messageIDs {
		set[id] = true
	}
	return r.mark(chatID, set, reader, at), nil
}

func (r *MemoryMessageRepository) mark(chatID string, only map[string]bool, reader domain.ActorRef, at time.Time) []string {
	ids := []string{}
	for _, m := range r.msgs[chatID] {
		if only != nil && !only[m.ID] {
			continue
		}
		if m.Sender.Equal(reader) || m.IsReadBy(reader) {
			continue
		}
		m.ReadBy = append(m.ReadBy, domain.ReadReceipt{Actor: reader, ReadAt: at})
		ids = append(ids, m.ID)
	}
	return ids
}

func copyMessage(m *domain.Message) *domain.Message {
	c := *m
	c.ReadBy = append([]domain.ReadReceipt{}, m.ReadBy...)
	return &c
}

// MemoryNotificationRepository in memory NotificationRepository
type MemoryNotificationRepository struct {
	mu    sync.Mutex
	items []*domain.Notification
}

// NewMemoryNotificationRepository create empty repository
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

// Create insert
func (r *MemoryNotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *n
	r.items = append(r.items, &c)
	return nil
}

func (r *MemoryNotificationRepository) find(id string, recipient domain.ActorRef) *domain.Notification {
	for _, n := range r.items {
		if n.ID == id && n.Recipient.Equal(recipient) {
			return n
		}
	}
	return nil
}

// FindForRecipient recipient scoped find
func (r *MemoryNotificationRepository) FindForRecipient(_ context.Context, id string, recipient domain.ActorRef) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id, recipient)
	if n == nil {
		return nil, domain.ErrNotificationNotFound
	}
	c := *n
	return &c, nil
}

// List newest first
func (r *MemoryNotificationRepository) List(_ context.Context, recipient domain.ActorRef, unreadOnly bool, skip, limit int) ([]*domain.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if !n.Recipient.Equal(recipient) || (unreadOnly && n.IsRead) {
			continue
		}
		c := *n
		matched = append(matched, &c)
	}
	total := int64(len(matched))
	if skip >= len(matched) {
		return []*domain.Notification{}, total, nil
	}
	matched = matched[skip:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// CountUnread unread of recipient
func (r *MemoryNotificationRepository) CountUnread(_ context.Context, recipient domain.ActorRef) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.Recipient.Equal(recipient) && !item.IsRead {
			n++
		}
	}
	return n, nil
}

// MarkRead first call sets read_at
func (r *MemoryNotificationRepository) MarkRead(_ context.Context, id string, recipient domain.ActorRef, at time.Time) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id, recipient)
	if n == nil {
		return nil, domain.ErrNotificationNotFound
	}
	if !n.IsRead {
		n.IsRead = true
		t := at
		n.ReadAt = &t
	}
	c := *n
	return &c, nil
}

// MarkAllRead mark every unread
func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, recipient domain.ActorRef, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, n := range r.items {
		if n.Recipient.Equal(recipient) && !n.IsRead {
			n.IsRead = true
			t := at
			n.ReadAt = &t
			changed++
		}
	}
	return changed, nil
}

// Delete recipient scoped
func (r *MemoryNotificationRepository) Delete(_ context.Context, id string, recipient domain.ActorRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.items {
		if n.ID == id && n.Recipient.Equal(recipient) {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}
