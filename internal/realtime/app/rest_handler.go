package app

import (
	"talent_realtime_service/internal/realtime/domain"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RestHandler 处理 chats / notifications / presence 的 HTTP 请求
type RestHandler struct {
	messenger     *Messenger
	notifications *NotificationUseCase
	presence      *PresenceQuery
}

// NewRestHandler create RestHandler
func NewRestHandler(messenger *Messenger, notifications *NotificationUseCase, presence *PresenceQuery) *RestHandler {
	return &RestHandler{messenger: messenger, notifications: notifications, presence: presence}
}

// ErrorBody http error body
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c *fiber.Ctx, err error) error {
	te := ToTransportError(err)
	return c.Status(te.Status).JSON(ErrorBody{Error: te.Reason, Code: string(te.Code)})
}

func caller(c *fiber.Ctx) (domain.ActorRef, error) {
	claims, ok := middlewares.ClaimsFrom(c.Locals(middlewares.TokenClaims))
	if !ok {
		return domain.ActorRef{}, errprocess.New(errprocess.KindUnauthenticated, "unauthenticated")
	}
	actor := domain.ActorRef{ID: claims.ActorID, Kind: domain.ActorKind(claims.ActorKind)}
	if actor.Validate() != nil {
		return domain.ActorRef{}, errprocess.New(errprocess.KindUnauthenticated, "unauthenticated")
	}
	return actor, nil
}

// ListChats list chats of the caller
// @Summary List chats
// @Description Chats of the caller, most recent activity first, with peer profile and unread count
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ChatSummary
// @Failure 401 {object} ErrorBody
// @Router /chats [get]
func (h *RestHandler) ListChats(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	chats, err := h.messenger.ListChats(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(chats)
}

// CreateChatRequest start chat body
type CreateChatRequest struct {
	ParticipantID   string `json:"participant_id"`
	ParticipantKind string `json:"participant_kind"`
}

// CreateChat find or create the chat with a participant
// @Summary Start chat
// @Description Find or create the direct chat between the caller and a participant
// @Tags Chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChatRequest true "participant"
// @Success 200 {object} domain.ChatCreatedPayload "existing chat"
// @Success 201 {object} domain.ChatCreatedPayload "created"
// @Failure 400 {object} ErrorBody
// @Router /chats [post]
func (h *RestHandler) CreateChat(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateChatRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, errprocess.New(errprocess.KindValidation, "invalid request"))
	}
	peer := domain.ActorRef{ID: req.ParticipantID, Kind: domain.ActorKind(req.ParticipantKind)}
	res, err := h.messenger.StartChat(c.UserContext(), actor, peer)
	if err != nil {
		return writeError(c, err)
	}
	if res.Created {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return c.JSON(res)
}

// ListMessages chat history page
// @Summary List messages
// @Description Chronological page older than cursor, peer messages on the page are marked read
// @Tags Chats
// @Produce json
// @Security BearerAuth
// @Param id path string true "chat id"
// @Param cursor query string false "opaque cursor"
// @Param limit query int false "page size (max 100)"
// @Success 200 {object} domain.MessagePage
// @Failure 403 {object} ErrorBody
// @Router /chats/{id}/messages [get]
func (h *RestHandler) ListMessages(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.messenger.ListMessages(c.UserContext(), actor, c.Params("id"), c.Query("cursor"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// SendMessageRequest send message body
type SendMessageRequest struct {
	Content string `json:"content"`
	Kind    string `json:"kind"`
}

// SendMessage send a message into a chat
// @Summary Send message
// @Tags Chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "chat id"
// @Param request body SendMessageRequest true "message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorBody
// @Failure 403 {object} ErrorBody
// @Router /chats/{id}/messages [post]
func (h *RestHandler) SendMessage(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, errprocess.New(errprocess.KindValidation, "invalid request"))
	}
	msg, err := h.messenger.SendMessage(c.UserContext(), actor, c.Params("id"), req.Content, domain.MessageKind(req.Kind))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// ListNotifications poll notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "only unread"
// @Param page query int false "page, from 1"
// @Param limit query int false "page size (max 100)"
// @Success 200 {object} domain.NotificationPage
// @Router /notifications [get]
func (h *RestHandler) ListNotifications(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.notifications.List(c.UserContext(), actor, c.QueryBool("unread_only"), c.QueryInt("page", 1), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// MarkNotificationRead mark one notification read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "notification id"
// @Success 200 {object} domain.Notification
// @Failure 404 {object} ErrorBody
// @Router /notifications/{id}/read [patch]
func (h *RestHandler) MarkNotificationRead(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.notifications.MarkRead(c.UserContext(), c.Params("id"), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(n)
}

// MarkAllNotificationsRead mark every notification of the caller read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/read-all [patch]
func (h *RestHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.notifications.MarkAllRead(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// DeleteNotification delete one notification
// @Summary Delete notification
// @Tags Notifications
// @Security BearerAuth
// @Param id path string true "notification id"
// @Success 204
// @Failure 404 {object} ErrorBody
// @Router /notifications/{id} [delete]
func (h *RestHandler) DeleteNotification(c *fiber.Ctx) error {
	actor, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.notifications.Delete(c.UserContext(), c.Params("id"), actor); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OnlineActors actors online on this node
// @Summary Online actors
// @Tags Presence
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.OnlineUsersPayload
// @Router /presence/online [get]
func (h *RestHandler) OnlineActors(c *fiber.Ctx) error {
	if _, err := caller(c); err != nil {
		return writeError(c, err)
	}
	return c.JSON(domain.OnlineUsersPayload{Actors: h.presence.Online()})
}

// ActorPresence online state of one actor, last seen when offline
// @Summary Actor presence
// @Tags Presence
// @Produce json
// @Security BearerAuth
// @Param kind path string true "candidate or organization"
// @Param id path string true "actor id"
// @Success 200 {object} domain.PresenceStatus
// @Failure 400 {object} ErrorBody
// @Router /presence/{kind}/{id} [get]
func (h *RestHandler) ActorPresence(c *fiber.Ctx) error {
	if _, err := caller(c); err != nil {
		return writeError(c, err)
	}
	actor := domain.ActorRef{ID: c.Params("id"), Kind: domain.ActorKind(c.Params("kind"))}
	status, err := h.presence.Status(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}
