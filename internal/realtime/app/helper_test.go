package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"talent_realtime_service/internal/realtime/channel"
	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg/config"

	"github.com/gofiber/websocket/v2"
)

var (
	ada  = domain.ActorRef{ID: "c-1", Kind: domain.Candidate}
	acme = domain.ActorRef{ID: "o-1", Kind: domain.Organization}
	bob  = domain.ActorRef{ID: "c-2", Kind: domain.Candidate}
)

type testEnv struct {
	chatRepo      *repository.MemoryChatRepository
	msgRepo       *repository.MemoryMessageRepository
	notifyRepo    *repository.MemoryNotificationRepository
	registry      *presence.Registry
	hub           *channel.Hub
	dispatcher    *Dispatcher
	chats         *ChatUseCase
	notifications *NotificationUseCase
	messenger     *Messenger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		chatRepo:   repository.NewMemoryChatRepository(),
		msgRepo:    repository.NewMemoryMessageRepository(),
		notifyRepo: repository.NewMemoryNotificationRepository(),
		registry:   presence.NewRegistry(),
		hub:        channel.NewHub(),
	}
	directory := repository.StaticDirectory{
		ada.Key():  {Ref: ada, DisplayName: "Ada"},
		acme.Key(): {Ref: acme, DisplayName: "Acme"},
	}
	env.dispatcher = NewDispatcher("node-test", env.registry, nil)
	env.chats = NewChatUseCase(env.chatRepo, env.msgRepo, directory, nil, ChatLimits{
		MaxMessageLength: 50,
		DefaultPageSize:  50,
		MaxPageSize:      100,
	})
	env.notifications = NewNotificationUseCase(env.notifyRepo, env.dispatcher)
	env.messenger = NewMessenger(env.chats, env.notifications, env.hub, env.dispatcher)
	return env
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		PingInterval:     time.Hour,
		HeartbeatTimeout: time.Hour,
		WriteTimeout:     time.Second,
		SendQueueSize:    64,
		ReadLimit:        1 << 16,
	}
}

// recordingHandle presence.Handle that keeps every event
type recordingHandle struct {
	id    string
	actor domain.ActorRef
	mu    sync.Mutex
	got   []domain.WSResponse
}

func newHandle(id string, actor domain.ActorRef) *recordingHandle {
	return &recordingHandle{id: id, actor: actor}
}

func (h *recordingHandle) ID() string { return h.id }
func (h *recordingHandle) Actor() domain.ActorRef { return h.actor }
func (h *recordingHandle) Send(evt domain.WSResponse) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, evt)
	return true
}

func (h *recordingHandle) count(event domain.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.got {
		if e.Event == string(event) {
			n++
		}
	}
	return n
}

func (h *recordingHandle) last(event domain.Event) (domain.WSResponse, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.got) - 1; i >= 0; i-- {
		if h.got[i].Event == string(event) {
			return h.got[i], true
		}
	}
	return domain.WSResponse{}, false
}

func (h *recordingHandle) events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.got))
	for _, e := range h.got {
		names = append(names, e.Event)
	}
	return names
}

func mustChat(t *testing.T, env *testEnv, a, b domain.ActorRef) *domain.Chat {
	t.Helper()
	chat, _, err := env.chats.FindOrCreateChat(context.Background(), a, b)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}

type frame struct {
	mt   int
	data []byte
}

// fakeConn in memory Transport
type fakeConn struct {
	in        chan frame
	out       chan domain.WSResponse
	closed    chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	closeCode int
	blockOut  bool
	deadline  time.Time
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan frame, 16),
		out:    make(chan domain.WSResponse, 256),
		closed: make(chan struct{}),
	}
}

var errConnClosed = errors.New("use of closed connection")

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	deadline := c.deadline
	c.mu.Unlock()
	var expired <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-expired:
		return 0, nil, timeoutErr{}
	case f, ok := <-c.in:
		if !ok {
			return 0, nil, io.EOF
		}
		return f.mt, f.data, nil
	case <-c.closed:
		return 0, nil, errConnClosed
	}
}

func (c *fakeConn) WriteMessage(mt int, data []byte) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	if c.blockOut {
		<-c.closed
		return errConnClosed
	}
	var resp domain.WSResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	c.out <- resp
	return nil
}

func (c *fakeConn) WriteControl(mt int, data []byte, _ time.Time) error {
	if mt == websocket.CloseMessage && len(data) >= 2 {
		c.mu.Lock()
		c.closeCode = int(data[0])<<8 | int(data[1])
		c.mu.Unlock()
	}
	return nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(int64) {}
func (c *fakeConn) SetPongHandler(func(string) error) {}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) code() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCode
}

func (c *fakeConn) sendJSON(t *testing.T, req domain.WSRequest) {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	c.in <- frame{mt: websocket.TextMessage, data: data}
}

// next wait for the next outbound event with the given name, skipping others
func (c *fakeConn) next(t *testing.T, event domain.Event) domain.WSResponse {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case resp := <-c.out:
			if resp.Event == string(event) {
				return resp
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %s", event)
			return domain.WSResponse{}
		}
	}
}

// decodePayload re-decode a json payload into v
func decodePayload(t *testing.T, resp domain.WSResponse, v interface{}) {
	t.Helper()
	data, err := json.Marshal(resp.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatal(err)
	}
}
