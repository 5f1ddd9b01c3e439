package app

import (
	"context"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg/config"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/token"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// WebsocketHandler websocket entry, one Session per connection
type WebsocketHandler struct {
	baseCtx       context.Context
	registry      *presence.Registry
	dispatcher    *Dispatcher
	messenger     *Messenger
	notifications *NotificationUseCase
	lastSeen      repository.LastSeenRepository
	cfg           config.SessionConfig
}

// NewWebsocketHandler baseCtx outlives connections, in-flight writes are not cancelled by a disconnect
func NewWebsocketHandler(
	baseCtx context.Context,
	registry *presence.Registry,
	dispatcher *Dispatcher,
	messenger *Messenger,
	notifications *NotificationUseCase,
	lastSeen repository.LastSeenRepository,
	cfg config.SessionConfig,
) *WebsocketHandler {
	return &WebsocketHandler{
		baseCtx:       baseCtx,
		registry:      registry,
		dispatcher:    dispatcher,
		messenger:     messenger,
		notifications: notifications,
		lastSeen:      lastSeen,
		cfg:           cfg,
	}
}

// HandleConnection 是 WebSocket 連線的進入點，blocks until the connection ends
func (h *WebsocketHandler) HandleConnection(conn Transport, claims *token.Claims) {
	if claims == nil || claims.ActorID == "" {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	actor := domain.ActorRef{ID: claims.ActorID, Kind: domain.ActorKind(claims.ActorKind)}
	if err := actor.Validate(); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	s := NewSession(conn, actor, claims.Name, h.cfg)
	h.connect(s)
	defer h.disconnect(s)

	s.Run(h.baseCtx, func(ctx context.Context, req domain.WSRequest) {
		h.handleRequest(ctx, s, req)
	})
}

// connect register first, then tell the others, then tell the newcomer who is online
func (h *WebsocketHandler) connect(s *Session) {
	first := h.registry.Register(s)
	logger.Log.Info("websocket connected", zap.String("actor", s.Actor().Key()), zap.String("name", s.Name()), zap.String("session", s.ID()), zap.Bool("first", first))

	if first {
		h.dispatcher.Broadcast(domain.Push(domain.UserOnline, domain.PresencePayload{Actor: s.Actor()}), s)
	}
	s.Send(domain.Push(domain.OnlineUsers, domain.OnlineUsersPayload{Actors: h.registry.OnlineActors()}))
}

// disconnect leave channels, unregister, last handle records last seen and broadcasts user_offline
func (h *WebsocketHandler) disconnect(s *Session) {
	h.messenger.LeaveAll(s)
	last, lastSeen := h.registry.Unregister(s)
	logger.Log.Info("websocket close", zap.String("actor", s.Actor().Key()), zap.String("session", s.ID()), zap.String("reason", s.Reason()))
	if !last {
		return
	}

	if h.lastSeen != nil {
		if err := h.lastSeen.Set(h.baseCtx, s.Actor(), lastSeen); err != nil {
			logger.Log.Warn("store last seen failed", zap.String("actor", s.Actor().Key()), zap.Error(err))
		}
	}
	h.dispatcher.Broadcast(domain.Push(domain.UserOffline, domain.PresencePayload{Actor: s.Actor(), LastSeen: &lastSeen}), s)
}

func (h *WebsocketHandler) handleRequest(ctx context.Context, s *Session, req domain.WSRequest) {
	logger.Log.Debug("websocket request", zap.String("actor", s.Actor().Key()), zap.String("event", req.Event), zap.String("request_id", req.RequestID))

	payload, err := h.exec(ctx, s, req)
	if err != nil {
		s.Send(ErrorResponse(req.RequestID, err))
		return
	}
	if payload == nil {
		return
	}
	s.Send(*payload)
}

// exec run one inbound event, nil response means nothing to reply
func (h *WebsocketHandler) exec(ctx context.Context, s *Session, req domain.WSRequest) (*domain.WSResponse, error) {
	actor := s.Actor()
	ack := func(payload interface{}) *domain.WSResponse {
		return &domain.WSResponse{Event: req.Event, RequestID: req.RequestID, Success: true, Payload: payload}
	}

	switch domain.Event(req.Event) {
	case domain.JoinChat:
		read, err := h.messenger.JoinChat(ctx, s, req.ChatID)
		if err != nil {
			return nil, err
		}
		return ack(read), nil

	case domain.LeaveChat:
		h.messenger.LeaveChat(s, req.ChatID)
		return ack(nil), nil

	case domain.SendMessage:
		msg, err := h.messenger.SendMessage(ctx, actor, req.ChatID, req.Content, domain.MessageKind(req.Kind))
		if err != nil {
			return nil, err
		}
		return ack(msg), nil

	case domain.TypingStart, domain.TypingStop:
		return nil, h.messenger.Typing(s, req.ChatID, domain.Event(req.Event) == domain.TypingStart)

	case domain.MarkMessageRead:
		read, err := h.messenger.MarkMessageRead(ctx, actor, s, req.ChatID, req.MessageID)
		if err != nil {
			return nil, err
		}
		return ack(read), nil

	case domain.CreateChat:
		peer := domain.ActorRef{ID: req.ParticipantID, Kind: domain.ActorKind(req.ParticipantKind)}
		created, err := h.messenger.StartChat(ctx, actor, peer)
		if err != nil {
			return nil, err
		}
		return ack(created), nil

	case domain.SubscribeNotifications:
		if req.ActorID != actor.ID {
			return nil, errprocess.New(errprocess.KindForbidden, "can only subscribe to own notifications")
		}
		count, err := h.notifications.UnreadCount(ctx, actor)
		if err != nil {
			return nil, err
		}
		return &domain.WSResponse{
			Event:     string(domain.UnreadCount),
			RequestID: req.RequestID,
			Success:   true,
			Payload:   domain.UnreadCountPayload{Count: count},
		}, nil

	case domain.MarkNotificationRead:
		n, err := h.notifications.MarkRead(ctx, req.NotificationID, actor)
		if err != nil {
			return nil, err
		}
		return ack(n), nil

	case domain.MarkAllNotificationsRead:
		changed, err := h.notifications.MarkAllRead(ctx, actor)
		if err != nil {
			return nil, err
		}
		return ack(map[string]int64{"updated": changed}), nil

	case domain.DeleteNotification:
		if err := h.notifications.Delete(ctx, req.NotificationID, actor); err != nil {
			return nil, err
		}
		return ack(nil), nil

	default:
		return nil, errprocess.New(errprocess.KindValidation, "unknown event: "+req.Event)
	}
}

// Shutdown close every local session with going away
func (h *WebsocketHandler) Shutdown() {
	for _, handle := range h.registry.AllHandles() {
		if s, ok := handle.(*Session); ok {
			s.Close(CloseShutdown)
		}
	}
}
