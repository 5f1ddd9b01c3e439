package domain

import "time"

// Event websocket event name
type Event string

// inbound events
const (
	JoinChat                 Event = "join_chat"
	LeaveChat                Event = "leave_chat"
	SendMessage              Event = "send_message"
	TypingStart              Event = "typing_start"
	TypingStop               Event = "typing_stop"
	MarkMessageRead          Event = "mark_message_read"
	CreateChat               Event = "create_chat"
	SubscribeNotifications   Event = "subscribe_notifications"
	MarkNotificationRead     Event = "mark_notification_read"
	MarkAllNotificationsRead Event = "mark_all_notifications_read"
	DeleteNotification       Event = "delete_notification"
)

// outbound events
const (
	NewMessage      Event = "new_message"
	UserJoined      Event = "user_joined"
	UserTyping      Event = "user_typing"
	UserStopTyping  Event = "user_stop_typing"
	MessageRead     Event = "message_read"
	ChatCreated     Event = "chat_created"
	UserOnline      Event = "user_online"
	UserOffline     Event = "user_offline"
	OnlineUsers     Event = "online_users"
	NewNotification Event = "new_notification"
	UnreadCount     Event = "unread_count"
	ErrorEvent      Event = "error"
)

// WSRequest websocket Request
type WSRequest struct {
	Event           string `json:"event"`
	RequestID       string `json:"request_id,omitempty"`
	ChatID          string `json:"chat_id,omitempty"`
	MessageID       string `json:"message_id,omitempty"`
	Content         string `json:"content,omitempty"`
	Kind            string `json:"kind,omitempty"`
	ParticipantID   string `json:"participant_id,omitempty"`
	ParticipantKind string `json:"participant_kind,omitempty"`
	ActorID         string `json:"actor_id,omitempty"`
	NotificationID  string `json:"notification_id,omitempty"`
	Cursor          string `json:"cursor,omitempty"`
	Limit           int    `json:"limit,omitempty"`
}

// WSResponse websocket Response, used for acks and pushes
type WSResponse struct {
	Event     string      `json:"event"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Payload   interface{} `json:"payload,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
}

// Push server initiated event
func Push(event Event, payload interface{}) WSResponse {
	return WSResponse{Event: string(event), Success: true, Payload: payload}
}

// PresencePayload user_online / user_offline
type PresencePayload struct {
	Actor    ActorRef   `json:"actor"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// PresenceStatus presence of one actor, LastSeen only while offline
type PresenceStatus struct {
	Actor    ActorRef   `json:"actor"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// OnlineUsersPayload online_users
type OnlineUsersPayload struct {
	Actors []ActorRef `json:"actors"`
}

// ChatActorPayload user_joined / user_typing / user_stop_typing
type ChatActorPayload struct {
	ChatID string   `json:"chat_id"`
	Actor  ActorRef `json:"actor"`
}

// ChatCreatedPayload chat_created
type ChatCreatedPayload struct {
	Chat    *Chat   `json:"chat"`
	Peer    Profile `json:"peer"`
	Created bool    `json:"created"`
}

// UnreadCountPayload unread_count
type UnreadCountPayload struct {
	Count int64 `json:"count"`
}

// DomainEvent notification trigger produced by other services (kafka / rabbitmq)
type DomainEvent struct {
	Type          NotificationType `json:"type"`
	Recipient     ActorRef         `json:"recipient"`
	Sender        ActorRef         `json:"sender"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	RelatedEntity *RelatedEntity   `json:"related_entity,omitempty"`
}

// NotifyInput convert event to notify input
func (e DomainEvent) NotifyInput() NotifyInput {
	return NotifyInput{
		Recipient:     e.Recipient,
		Sender:        e.Sender,
		Type:          e.Type,
		Title:         e.Title,
		Message:       e.Message,
		RelatedEntity: e.RelatedEntity,
	}
}
