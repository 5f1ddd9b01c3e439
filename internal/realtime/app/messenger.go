package app

import (
	"context"

	"talent_realtime_service/internal/realtime/channel"
	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
)

// Messenger chat flows shared by websocket and REST, origin is the calling handle or nil for REST
type Messenger struct {
	chats         *ChatUseCase
	notifications *NotificationUseCase
	hub           *channel.Hub
	dispatcher    *Dispatcher
}

// NewMessenger init messenger
func NewMessenger(chats *ChatUseCase, notifications *NotificationUseCase, hub *channel.Hub, dispatcher *Dispatcher) *Messenger {
	return &Messenger{
		chats:         chats,
		notifications: notifications,
		hub:           hub,
		dispatcher:    dispatcher,
	}
}

// SendMessage persist, push new_message to channel members and recipient handles once each, then notify the peer
func (m *Messenger) SendMessage(ctx context.Context, sender domain.ActorRef, chatID, content string, kind domain.MessageKind) (*domain.Message, error) {
	msg, chat, err := m.chats.AppendMessage(ctx, chatID, sender, content, kind)
	if err != nil {
		return nil, err
	}
	peer, _ := chat.Peer(sender)

	evt := domain.Push(domain.NewMessage, msg)
	var delivered []string
	for _, h := range m.hub.Members(chat.ID) {
		if h.Send(evt) {
			delivered = append(delivered, h.ID())
		}
	}
	m.dispatcher.ToActor(ctx, peer, evt, delivered...)

	title := "New message from " + m.chats.Profile(ctx, sender).DisplayName
	m.notifications.NotifyBestEffort(ctx, domain.NotifyInput{
		Recipient:     peer,
		Sender:        sender,
		Type:          domain.NotifyMessage,
		Title:         title,
		Message:       preview(msg),
		RelatedEntity: &domain.RelatedEntity{Kind: domain.EntityChat, ID: chat.ID},
	})
	return msg, nil
}

// StartChat find or create, chat_created goes to the caller and, on creation, to the peer
func (m *Messenger) StartChat(ctx context.Context, caller, peer domain.ActorRef) (*domain.ChatCreatedPayload, error) {
	chat, created, err := m.chats.FindOrCreateChat(ctx, caller, peer)
	if err != nil {
		return nil, err
	}

	own := &domain.ChatCreatedPayload{Chat: chat, Peer: m.chats.Profile(ctx, peer), Created: created}
	m.dispatcher.ToActor(ctx, caller, domain.Push(domain.ChatCreated, own))
	if created {
		theirs := &domain.ChatCreatedPayload{Chat: chat, Peer: m.chats.Profile(ctx, caller), Created: true}
		m.dispatcher.ToActor(ctx, peer, domain.Push(domain.ChatCreated, theirs))
	}
	return own, nil
}

// JoinChat subscribe handle to the chat channel and mark everything read
func (m *Messenger) JoinChat(ctx context.Context, h presence.Handle, chatID string) (*domain.ReadResult, error) {
	chat, read, err := m.chats.JoinChat(ctx, chatID, h.Actor())
	if err != nil {
		return nil, err
	}
	m.hub.Join(chat.ID, h)

	if len(read.MessageIDs) > 0 {
		m.hub.Publish(chat.ID, domain.Push(domain.MessageRead, read), h)
	}
	m.hub.Publish(chat.ID, domain.Push(domain.UserJoined, domain.ChatActorPayload{ChatID: chat.ID, Actor: h.Actor()}), h)
	return read, nil
}

// LeaveChat unsubscribe, no side effects
func (m *Messenger) LeaveChat(h presence.Handle, chatID string) {
	m.hub.Leave(chatID, h)
}

// LeaveAll unsubscribe handle from every channel
func (m *Messenger) LeaveAll(h presence.Handle) {
	m.hub.LeaveAll(h)
}

// Typing relay typing state to the other channel members, caller must have joined the channel
func (m *Messenger) Typing(h presence.Handle, chatID string, start bool) error {
	if !m.hub.IsMember(chatID, h) {
		return domain.ErrNotParticipant
	}
	evt := domain.UserStopTyping
	if start {
		evt = domain.UserTyping
	}
	m.hub.Publish(chatID, domain.Push(evt, domain.ChatActorPayload{ChatID: chatID, Actor: h.Actor()}), h)
	return nil
}

// MarkMessageRead mark one message and tell the channel
func (m *Messenger) MarkMessageRead(ctx context.Context, caller domain.ActorRef, origin presence.Handle, chatID, messageID string) (*domain.ReadResult, error) {
	read, err := m.chats.MarkMessageRead(ctx, chatID, messageID, caller)
	if err != nil {
		return nil, err
	}
	m.publishRead(read, origin)
	return read, nil
}

// ListMessages history page, peer messages on the page become read
func (m *Messenger) ListMessages(ctx context.Context, caller domain.ActorRef, chatID, cursor string, limit int) (*domain.MessagePage, error) {
	page, read, err := m.chats.ListMessages(ctx, chatID, caller, cursor, limit)
	if err != nil {
		return nil, err
	}
	if read != nil {
		m.publishRead(read, nil)
	}
	return page, nil
}

// ListChats chat list of caller
func (m *Messenger) ListChats(ctx context.Context, caller domain.ActorRef) ([]*domain.ChatSummary, error) {
	return m.chats.ListChats(ctx, caller)
}

func (m *Messenger) publishRead(read *domain.ReadResult, origin presence.Handle) {
	if len(read.MessageIDs) == 0 {
		return
	}
	m.hub.Publish(read.ChatID, domain.Push(domain.MessageRead, read), origin)
}

func preview(msg *domain.Message) string {
	if msg.Kind.IsAttachment() {
		return "sent a " + string(msg.Kind)
	}
	const maxPreview = 120
	r := []rune(msg.Content)
	if len(r) <= maxPreview {
		return msg.Content
	}
	return string(r[:maxPreview]) + "..."
}
