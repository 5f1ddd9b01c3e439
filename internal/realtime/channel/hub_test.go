package channel

import (
	"sync"
	"testing"

	"talent_realtime_service/internal/realtime/domain"

	"github.com/stretchr/testify/assert"
)

type recordingHandle struct {
	id    string
	actor domain.ActorRef
	mu    sync.Mutex
	got   []domain.WSResponse
}

func (h *recordingHandle) ID() string { return h.id }
func (h *recordingHandle) Actor() domain.ActorRef { return h.actor }
func (h *recordingHandle) Send(evt domain.WSResponse) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, evt)
	return true
}

func (h *recordingHandle) events() []domain.WSResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.WSResponse(nil), h.got...)
}

func TestHubPublishExcept(t *testing.T) {
	hub := NewHub()
	a := &recordingHandle{id: "a"}
	b := &recordingHandle{id: "b"}
	c := &recordingHandle{id: "c"}
	hub.Join("chat-1", a)
	hub.Join("chat-1", b)
	hub.Join("chat-2", c)

	n := hub.Publish("chat-1", domain.Push(domain.UserTyping, nil), a)

	assert.Equal(t, 1, n)
	assert.Empty(t, a.events())
	assert.Len(t, b.events(), 1)
	assert.Empty(t, c.events())
}

func TestHubLeaveAll(t *testing.T) {
	hub := NewHub()
	a := &recordingHandle{id: "a"}
	hub.Join("chat-1", a)
	hub.Join("chat-2", a)
	assert.True(t, hub.IsMember("chat-1", a))

	hub.LeaveAll(a)

	assert.False(t, hub.IsMember("chat-1", a))
	assert.False(t, hub.IsMember("chat-2", a))
	assert.Empty(t, hub.Members("chat-1"))
	assert.Equal(t, 0, hub.Publish("chat-2", domain.Push(domain.NewMessage, nil)))
}

func TestHubLeaveKeepsOthers(t *testing.T) {
	hub := NewHub()
	a := &recordingHandle{id: "a"}
	b := &recordingHandle{id: "b"}
	hub.Join("chat-1", a)
	hub.Join("chat-1", b)

	hub.Leave("chat-1", a)

	assert.Len(t, hub.Members("chat-1"), 1)
	assert.True(t, hub.IsMember("chat-1", b))
}
