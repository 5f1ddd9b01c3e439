package app

import (
	"context"
	"time"

	"talent_realtime_service/internal/realtime/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

// MockChatRepository Mock ChatRepository
type MockChatRepository struct {
	mock.Mock
}

// FindOrCreate moke find or create chat
func (m *MockChatRepository) FindOrCreate(ctx context.Context, a, b domain.ActorRef) (*domain.Chat, bool, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// FindByID moke find chat by id
func (m *MockChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByParticipant moke list chats
func (m *MockChatRepository) ListByParticipant(ctx context.Context, actor domain.ActorRef) ([]*domain.Chat, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) != nil {
		return args.Get(0).([]*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// AdvanceLastMessage moke advance pointer
func (m *MockChatRepository) AdvanceLastMessage(ctx context.Context, chatID, messageID string, at time.Time, seq int64) (bool, error) {
	args := m.Called(ctx, chatID, messageID, at, seq)
	return args.Bool(0), args.Error(1)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find message
func (m *MockMessageRepository) FindByID(ctx context.Context, chatID, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, chatID, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListBefore moke list messages
func (m *MockMessageRepository) ListBefore(ctx context.Context, chatID string, before *domain.Cursor, limit int) ([]*domain.Message, error) {
	args := m.Called(ctx, chatID, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountUnread moke count unread
func (m *MockMessageRepository) CountUnread(ctx context.Context, chatID string, reader domain.ActorRef) (int64, error) {
	args := m.Called(ctx, chatID, reader)
	return args.Get(0).(int64), args.Error(1)
}

// MarkAllRead moke mark all read
func (m *MockMessageRepository) MarkAllRead(ctx context.Context, chatID string, reader domain.ActorRef, at time.Time) ([]string, error) {
	args := m.Called(ctx, chatID, reader, at)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead moke mark read
func (m *MockMessageRepository) MarkRead(ctx context.Context, chatID string, messageIDs []string, reader domain.ActorRef, at time.Time) ([]string, error) {
	args := m.Called(ctx, chatID, messageIDs, reader, at)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAttachmentSigner Mock AttachmentSigner
type MockAttachmentSigner struct {
	mock.Mock
}

// SignURL moke sign url
func (m *MockAttachmentSigner) SignURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// Notify moke notify
func (m *MockNotifier) Notify(ctx context.Context, in domain.NotifyInput) (*domain.Notification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockKafkaReader Mock KafkaReader
type MockKafkaReader struct {
	mock.Mock
}

// FetchMessage moke fetch
func (m *MockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

// CommitMessages moke commit
func (m *MockKafkaReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

// Close moke close
func (m *MockKafkaReader) Close() error {
	return m.Called().Error(0)
}
