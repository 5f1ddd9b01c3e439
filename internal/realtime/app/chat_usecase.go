package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatLimits message and paging limits
type ChatLimits struct {
	MaxMessageLength int
	DefaultPageSize  int
	MaxPageSize      int
}

// ChatUseCase chat and message rules
type ChatUseCase struct {
	chatRepo  repository.ChatRepository
	msgRepo   repository.MessageRepository
	directory repository.ActorDirectory
	signer    repository.AttachmentSigner
	limits    ChatLimits
}

// NewChatUseCase init chat use case, signer may be nil
func NewChatUseCase(
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	directory repository.ActorDirectory,
	signer repository.AttachmentSigner,
	limits ChatLimits,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:  chatRepo,
		msgRepo:   msgRepo,
		directory: directory,
		signer:    signer,
		limits:    limits,
	}
}

// FindOrCreateChat one chat per unordered pair, created is true only for the creating call
func (uc *ChatUseCase) FindOrCreateChat(ctx context.Context, a, b domain.ActorRef) (*domain.Chat, bool, error) {
	if err := a.Validate(); err != nil {
		return nil, false, err
	}
	if err := b.Validate(); err != nil {
		return nil, false, err
	}
	if a.Equal(b) {
		return nil, false, domain.ErrSelfChat
	}

	chat, created, err := uc.chatRepo.FindOrCreate(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	if !chat.HasParticipant(a) || !chat.HasParticipant(b) {
		return nil, false, domain.ErrChatPairMismatch
	}
	if created {
		metrics.ChatsCreated.Inc()
		logger.Log.Info("chat created", zap.String("chat_id", chat.ID), zap.String("pair", chat.PairKey))
	}
	return chat, created, nil
}

// ChatFor load chat and check caller is a participant
func (uc *ChatUseCase) ChatFor(ctx context.Context, chatID string, caller domain.ActorRef) (*domain.Chat, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(caller) {
		return nil, domain.ErrNotParticipant
	}
	return chat, nil
}

// AppendMessage access check, validate, persist then advance the chat pointer
func (uc *ChatUseCase) AppendMessage(ctx context.Context, chatID string, sender domain.ActorRef, content string, kind domain.MessageKind) (*domain.Message, *domain.Chat, error) {
	chat, err := uc.ChatFor(ctx, chatID, sender)
	if err != nil {
		return nil, nil, err
	}

	if kind == "" {
		kind = domain.TextMessage
	}
	if !kind.Valid() {
		return nil, nil, domain.ErrUnknownMessageKind
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, domain.ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > uc.limits.MaxMessageLength {
		return nil, nil, domain.ErrContentTooLong
	}

	msg := &domain.Message{
		ID:      uuid.New().String(),
		ChatID:  chat.ID,
		Sender:  sender,
		Content: content,
		Kind:    kind,
		ReadBy:  []domain.ReadReceipt{},
	}
	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, nil, err
	}
	metrics.MessagesSent.WithLabelValues(string(kind)).Inc()

	// 訊息已寫入但指標沒前進，回報失敗讓 client 重送，不廣播
	if _, err := uc.chatRepo.AdvanceLastMessage(ctx, chat.ID, msg.ID, msg.CreatedAt, msg.Seq); err != nil {
		logger.Log.Warn("advance chat pointer failed", zap.String("chat_id", chat.ID), zap.String("message_id", msg.ID), zap.Error(err))
		return nil, nil, errprocess.Storage("advance chat pointer", err)
	}

	uc.sign(ctx, msg)
	return msg, chat, nil
}

// ListMessages chronological page strictly older than cursor, returned peer messages are marked read
func (uc *ChatUseCase) ListMessages(ctx context.Context, chatID string, caller domain.ActorRef, cursor string, limit int) (*domain.MessagePage, *domain.ReadResult, error) {
	before, err := domain.ParseCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	chat, err := uc.ChatFor(ctx, chatID, caller)
	if err != nil {
		return nil, nil, err
	}

	limit = pkg.Clamp(limit, uc.limits.DefaultPageSize, uc.limits.MaxPageSize)
	// 多取一筆判斷 has_more
	msgs, err := uc.msgRepo.ListBefore(ctx, chat.ID, before, limit+1)
	if err != nil {
		return nil, nil, err
	}

	page := &domain.MessagePage{}
	if len(msgs) > limit {
		page.HasMore = true
		msgs = msgs[:limit]
	}
	if len(msgs) > 0 && page.HasMore {
		page.NextCursor = domain.CursorOf(msgs[len(msgs)-1]).String()
	}
	pkg.Reverse(msgs)
	page.Messages = msgs

	var unread []string
	for _, m := range msgs {
		if !m.Sender.Equal(caller) && !m.IsReadBy(caller) {
			unread = append(unread, m.ID)
		}
	}
	var read *domain.ReadResult
	if len(unread) > 0 {
		read, err = uc.markRead(ctx, chat.ID, unread, caller)
		if err != nil {
			return nil, nil, err
		}
		stampRead(msgs, read)
	}

	for _, m := range msgs {
		uc.sign(ctx, m)
	}
	return page, read, nil
}

// ComputeUnreadCount messages not sent by caller and not read by caller
func (uc *ChatUseCase) ComputeUnreadCount(ctx context.Context, chatID string, caller domain.ActorRef) (int64, error) {
	chat, err := uc.ChatFor(ctx, chatID, caller)
	if err != nil {
		return 0, err
	}
	return uc.msgRepo.CountUnread(ctx, chat.ID, caller)
}

// JoinChat participant check then mark every unread message read
func (uc *ChatUseCase) JoinChat(ctx context.Context, chatID string, caller domain.ActorRef) (*domain.Chat, *domain.ReadResult, error) {
	chat, err := uc.ChatFor(ctx, chatID, caller)
	if err != nil {
		return nil, nil, err
	}
	at := domain.Now()
	ids, err := uc.msgRepo.MarkAllRead(ctx, chat.ID, caller, at)
	if err != nil {
		return nil, nil, err
	}
	return chat, &domain.ReadResult{ChatID: chat.ID, Reader: caller, MessageIDs: ids, ReadAt: at}, nil
}

// MarkMessageRead idempotent, own messages are a no-op
func (uc *ChatUseCase) MarkMessageRead(ctx context.Context, chatID, messageID string, caller domain.ActorRef) (*domain.ReadResult, error) {
	chat, err := uc.ChatFor(ctx, chatID, caller)
	if err != nil {
		return nil, err
	}
	msg, err := uc.msgRepo.FindByID(ctx, chat.ID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Sender.Equal(caller) || msg.IsReadBy(caller) {
		return &domain.ReadResult{ChatID: chat.ID, Reader: caller, MessageIDs: []string{}}, nil
	}
	return uc.markRead(ctx, chat.ID, []string{msg.ID}, caller)
}

// ListChats chats of caller, newest activity first, with peer profile and unread count
func (uc *ChatUseCase) ListChats(ctx context.Context, caller domain.ActorRef) ([]*domain.ChatSummary, error) {
	chats, err := uc.chatRepo.ListByParticipant(ctx, caller)
	if err != nil {
		return nil, err
	}
	summaries := make([]*domain.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		peer, ok := chat.Peer(caller)
		if !ok {
			continue
		}
		unread, err := uc.msgRepo.CountUnread(ctx, chat.ID, caller)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &domain.ChatSummary{
			Chat:        chat,
			Peer:        uc.directory.Resolve(ctx, peer),
			UnreadCount: unread,
		})
	}
	return summaries, nil
}

// Profile resolve display data through the directory
func (uc *ChatUseCase) Profile(ctx context.Context, ref domain.ActorRef) domain.Profile {
	return uc.directory.Resolve(ctx, ref)
}

func (uc *ChatUseCase) markRead(ctx context.Context, chatID string, ids []string, reader domain.ActorRef) (*domain.ReadResult, error) {
	at := domain.Now()
	marked, err := uc.msgRepo.MarkRead(ctx, chatID, ids, reader, at)
	if err != nil {
		return nil, err
	}
	return &domain.ReadResult{ChatID: chatID, Reader: reader, MessageIDs: marked, ReadAt: at}, nil
}

// sign attach a presigned url to file / image messages, failure leaves the url empty
func (uc *ChatUseCase) sign(ctx context.Context, msg *domain.Message) {
	if uc.signer == nil || !msg.Kind.IsAttachment() {
		return
	}
	url, err := uc.signer.SignURL(ctx, msg.Content)
	if err != nil {
		logger.Log.Warn("sign attachment failed", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}
	msg.AttachmentURL = url
}

func stampRead(msgs []*domain.Message, read *domain.ReadResult) {
	for _, m := range msgs {
		if pkg.Contains(read.MessageIDs, m.ID) {
			m.ReadBy = append(m.ReadBy, domain.ReadReceipt{Actor: read.Reader, ReadAt: read.ReadAt})
		}
	}
}
