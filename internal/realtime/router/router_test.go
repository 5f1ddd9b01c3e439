package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talent_realtime_service/internal/realtime/app"
	"talent_realtime_service/internal/realtime/channel"
	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg/config"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, opts ...func(*config.Realtime)) *fiber.App {
	t.Helper()
	logger.SetNewNop()

	registry := presence.NewRegistry()
	hub := channel.NewHub()
	directory := repository.StaticDirectory{
		"candidate:c-1":    {Ref: domain.ActorRef{ID: "c-1", Kind: domain.Candidate}, DisplayName: "Ada"},
		"organization:o-1": {Ref: domain.ActorRef{ID: "o-1", Kind: domain.Organization}, DisplayName: "Acme"},
	}
	dispatcher := app.NewDispatcher("node-test", registry, nil)
	chats := app.NewChatUseCase(repository.NewMemoryChatRepository(), repository.NewMemoryMessageRepository(), directory, nil,
		app.ChatLimits{MaxMessageLength: 4000, DefaultPageSize: 50, MaxPageSize: 100})
	notifications := app.NewNotificationUseCase(repository.NewMemoryNotificationRepository(), dispatcher)
	messenger := app.NewMessenger(chats, notifications, hub, dispatcher)

	cfg := config.Realtime{}
	cfg.ApplyDefaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	ws := app.NewWebsocketHandler(context.Background(), registry, dispatcher, messenger, notifications, nil, cfg.Session)

	r := fiber.New()
	RegisterRoutes(r, app.NewRestHandler(messenger, notifications, app.NewPresenceQuery(registry, nil)), ws)
	return r
}

func bearer(t *testing.T, id, kind, name string) string {
	t.Helper()
	tk, err := token.GenerateJWT(id, kind, name, "member_service")
	require.NoError(t, err)
	return "Bearer " + tk
}

func do(t *testing.T, r *fiber.App, method, path, auth string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := r.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestUnprotectedRoutes(t *testing.T) {
	r := newTestApp(t)

	code, body := do(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "realtime service start!", string(body))

	code, body = do(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestDebugRequiresToken(t *testing.T) {
	r := newTestApp(t)
	ada := bearer(t, "c-1", "candidate", "Ada")

	code, _ := do(t, r, http.MethodPost, "/debug?service=realtime&status=true", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, logger.Log.IsDebugMode())

	code, _ = do(t, r, http.MethodPost, "/debug?service=realtime&status=true", ada, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, logger.Log.IsDebugMode())

	code, _ = do(t, r, http.MethodPost, "/debug?status=maybe", ada, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRestPresence(t *testing.T) {
	r := newTestApp(t)
	acme := bearer(t, "o-1", "organization", "Acme")

	code, _ := do(t, r, http.MethodGet, "/presence/candidate/c-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := do(t, r, http.MethodGet, "/presence/candidate/c-1", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var status domain.PresenceStatus
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, domain.ActorRef{ID: "c-1", Kind: domain.Candidate}, status.Actor)
	assert.False(t, status.Online)
	assert.Nil(t, status.LastSeen)

	code, _ = do(t, r, http.MethodGet, "/presence/robot/1", acme, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRestRequiresToken(t *testing.T) {
	r := newTestApp(t)

	for _, path := range []string{"/chats", "/notifications", "/presence/online"} {
		code, _ := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}
	code, _ := do(t, r, http.MethodGet, "/chats", "Bearer not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRestChatFlow(t *testing.T) {
	r := newTestApp(t)
	ada := bearer(t, "c-1", "candidate", "Ada")
	acme := bearer(t, "o-1", "organization", "Acme")
	bob := bearer(t, "c-2", "candidate", "Bob")

	code, body := do(t, r, http.MethodPost, "/chats", ada, app.CreateChatRequest{ParticipantID: "o-1", ParticipantKind: "organization"})
	require.Equal(t, http.StatusCreated, code, string(body))
	var created domain.ChatCreatedPayload
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Acme", created.Peer.DisplayName)

	code, _ = do(t, r, http.MethodPost, "/chats", acme, app.CreateChatRequest{ParticipantID: "c-1", ParticipantKind: "candidate"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodPost, "/chats", ada, app.CreateChatRequest{ParticipantID: "c-1", ParticipantKind: "candidate"})
	assert.Equal(t, http.StatusBadRequest, code)

	msgPath := fmt.Sprintf("/chats/%s/messages", created.Chat.ID)
	code, _ = do(t, r, http.MethodPost, msgPath, ada, app.SendMessageRequest{Content: "hello"})
	assert.Equal(t, http.StatusCreated, code)

	code, body = do(t, r, http.MethodPost, msgPath, bob, app.SendMessageRequest{Content: "let me in"})
	assert.Equal(t, http.StatusForbidden, code)
	var forbidden app.ErrorBody
	require.NoError(t, json.Unmarshal(body, &forbidden))
	assert.Equal(t, "chat not accessible", forbidden.Error)

	code, body = do(t, r, http.MethodGet, "/chats/missing/messages", bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
	var missing app.ErrorBody
	require.NoError(t, json.Unmarshal(body, &missing))
	assert.Equal(t, forbidden, missing)

	code, body = do(t, r, http.MethodGet, msgPath+"?limit=10", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var page domain.MessagePage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "hello", page.Messages[0].Content)

	code, body = do(t, r, http.MethodGet, "/chats", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var list []domain.ChatSummary
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(0), list[0].UnreadCount)
}

func TestRestNotificationFlow(t *testing.T) {
	r := newTestApp(t)
	ada := bearer(t, "c-1", "candidate", "Ada")
	acme := bearer(t, "o-1", "organization", "Acme")

	_, body := do(t, r, http.MethodPost, "/chats", ada, app.CreateChatRequest{ParticipantID: "o-1", ParticipantKind: "organization"})
	var created domain.ChatCreatedPayload
	require.NoError(t, json.Unmarshal(body, &created))
	for i := 0; i < 2; i++ {
		code, _ := do(t, r, http.MethodPost, "/chats/"+created.Chat.ID+"/messages", ada, app.SendMessageRequest{Content: "ping"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := do(t, r, http.MethodGet, "/notifications?unread_only=true", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var page domain.NotificationPage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(2), page.UnreadCount)
	assert.Equal(t, "New message from Ada", page.Notifications[0].Title)

	first := page.Notifications[0].ID
	code, _ = do(t, r, http.MethodPatch, "/notifications/"+first+"/read", ada, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, r, http.MethodPatch, "/notifications/"+first+"/read", acme, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = do(t, r, http.MethodPatch, "/notifications/read-all", acme, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":1}`, string(body))

	code, _ = do(t, r, http.MethodDelete, "/notifications/"+first, acme, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, r, http.MethodDelete, "/notifications/"+first, acme, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func listen(t *testing.T, r *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = r.Listener(ln) }()
	t.Cleanup(func() { _ = r.Shutdown() })
	return ln.Addr().String()
}

func readEvent(t *testing.T, c *gorilla.Conn, event domain.Event) domain.WSResponse {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var resp domain.WSResponse
		require.NoError(t, c.ReadJSON(&resp))
		if resp.Event == string(event) {
			return resp
		}
	}
}

func TestWebsocketEndToEnd(t *testing.T) {
	r := newTestApp(t)
	addr := listen(t, r)

	_, resp, err := gorilla.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	adaTk, err := token.GenerateJWT("c-1", "candidate", "Ada", "member_service")
	require.NoError(t, err)
	acmeTk, err := token.GenerateJWT("o-1", "organization", "Acme", "member_service")
	require.NoError(t, err)

	adaConn, _, err := gorilla.DefaultDialer.Dial("ws://"+addr+"/ws?auth="+adaTk, nil)
	require.NoError(t, err)
	defer adaConn.Close()
	readEvent(t, adaConn, domain.OnlineUsers)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+acmeTk)
	acmeConn, _, err := gorilla.DefaultDialer.Dial("ws://"+addr+"/ws", header)
	require.NoError(t, err)
	defer acmeConn.Close()
	readEvent(t, acmeConn, domain.OnlineUsers)

	online := readEvent(t, adaConn, domain.UserOnline)
	assert.True(t, online.Success)

	require.NoError(t, adaConn.WriteJSON(domain.WSRequest{
		Event:           string(domain.CreateChat),
		RequestID:       "1",
		ParticipantID:   "o-1",
		ParticipantKind: "organization",
	}))
	created := readEvent(t, acmeConn, domain.ChatCreated)
	data, err := json.Marshal(created.Payload)
	require.NoError(t, err)
	var payload domain.ChatCreatedPayload
	require.NoError(t, json.Unmarshal(data, &payload))

	require.NoError(t, adaConn.WriteJSON(domain.WSRequest{
		Event:     string(domain.SendMessage),
		RequestID: "2",
		ChatID:    payload.Chat.ID,
		Content:   "hello from the browser",
	}))
	ack := readEvent(t, adaConn, domain.SendMessage)
	assert.Equal(t, "2", ack.RequestID)
	msg := readEvent(t, acmeConn, domain.NewMessage)
	assert.Contains(t, fmt.Sprint(msg.Payload), "hello from the browser")
	readEvent(t, acmeConn, domain.NewNotification)

	require.NoError(t, adaConn.Close())
	offline := readEvent(t, acmeConn, domain.UserOffline)
	assert.True(t, offline.Success)
}

func TestWebsocketHeartbeatTimeout(t *testing.T) {
	r := newTestApp(t, func(cfg *config.Realtime) {
		cfg.Session.PingInterval = 100 * time.Millisecond
		cfg.Session.HeartbeatTimeout = 400 * time.Millisecond
	})
	addr := listen(t, r)

	acmeTk, err := token.GenerateJWT("o-1", "organization", "Acme", "member_service")
	require.NoError(t, err)
	adaTk, err := token.GenerateJWT("c-1", "candidate", "Ada", "member_service")
	require.NoError(t, err)

	// acme 一直在讀，預設 ping handler 會回 pong
	acmeConn, _, err := gorilla.DefaultDialer.Dial("ws://"+addr+"/ws?auth="+acmeTk, nil)
	require.NoError(t, err)
	defer acmeConn.Close()
	readEvent(t, acmeConn, domain.OnlineUsers)

	// ada 不回 pong 也不送任何訊息
	adaConn, _, err := gorilla.DefaultDialer.Dial("ws://"+addr+"/ws?auth="+adaTk, nil)
	require.NoError(t, err)
	defer adaConn.Close()
	adaConn.SetPingHandler(func(string) error { return nil })

	readEvent(t, acmeConn, domain.UserOnline)
	offline := readEvent(t, acmeConn, domain.UserOffline)
	data, err := json.Marshal(offline.Payload)
	require.NoError(t, err)
	var payload domain.PresencePayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, domain.ActorRef{ID: "c-1", Kind: domain.Candidate}, payload.Actor)
	require.NotNil(t, payload.LastSeen)

	require.NoError(t, adaConn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, _, err = adaConn.ReadMessage()
		if err != nil {
			break
		}
	}
	var closeErr *gorilla.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, gorilla.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "heartbeat", closeErr.Text)

	acme := bearer(t, "o-1", "organization", "Acme")
	code, body := do(t, r, http.MethodGet, "/presence/candidate/c-1", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var status domain.PresenceStatus
	require.NoError(t, json.Unmarshal(body, &status))
	assert.False(t, status.Online)
	require.NotNil(t, status.LastSeen)
	assert.True(t, status.LastSeen.Equal(*payload.LastSeen))

	code, body = do(t, r, http.MethodGet, "/presence/online", acme, nil)
	require.Equal(t, http.StatusOK, code)
	var online domain.OnlineUsersPayload
	require.NoError(t, json.Unmarshal(body, &online))
	assert.NotContains(t, online.Actors, domain.ActorRef{ID: "c-1", Kind: domain.Candidate})
}
