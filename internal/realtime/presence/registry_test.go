package presence

import (
	"fmt"
	"sync"
	"testing"

	"talent_realtime_service/internal/realtime/domain"

	"github.com/stretchr/testify/assert"
)

type stubHandle struct {
	id    string
	actor domain.ActorRef
}

func (h *stubHandle) ID() string { return h.id }
func (h *stubHandle) Actor() domain.ActorRef { return h.actor }
func (h *stubHandle) Send(_ domain.WSResponse) bool { return true }

func TestRegistryMultiDevice(t *testing.T) {
	r := NewRegistry()
	alice := domain.ActorRef{ID: "a", Kind: domain.Candidate}
	phone := &stubHandle{id: "h1", actor: alice}
	laptop := &stubHandle{id: "h2", actor: alice}

	assert.True(t, r.Register(phone))
	assert.False(t, r.Register(laptop))
	assert.True(t, r.IsOnline(alice))
	assert.Len(t, r.HandlesFor(alice), 2)

	last, _ := r.Unregister(phone)
	assert.False(t, last)
	assert.True(t, r.IsOnline(alice))
	_, ok := r.LastSeen(alice)
	assert.False(t, ok)

	last, seen := r.Unregister(laptop)
	assert.True(t, last)
	assert.False(t, seen.IsZero())
	assert.False(t, r.IsOnline(alice))
	got, ok := r.LastSeen(alice)
	assert.True(t, ok)
	assert.Equal(t, seen, got)
}

func TestRegistrySameIDDifferentKind(t *testing.T) {
	r := NewRegistry()
	cand := domain.ActorRef{ID: "7", Kind: domain.Candidate}
	org := domain.ActorRef{ID: "7", Kind: domain.Organization}

	r.Register(&stubHandle{id: "h1", actor: cand})

	assert.True(t, r.IsOnline(cand))
	assert.False(t, r.IsOnline(org))
	assert.Equal(t, []domain.ActorRef{cand}, r.OnlineActors())
}

func TestRegistryUnregisterUnknownHandle(t *testing.T) {
	r := NewRegistry()
	alice := domain.ActorRef{ID: "a", Kind: domain.Candidate}
	r.Register(&stubHandle{id: "h1", actor: alice})

	last, _ := r.Unregister(&stubHandle{id: "other", actor: alice})
	assert.False(t, last)
	assert.True(t, r.IsOnline(alice))
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := &stubHandle{id: fmt.Sprintf("h%d", i), actor: domain.ActorRef{ID: fmt.Sprintf("%d", i%5), Kind: domain.Candidate}}
			r.Register(h)
			_ = r.OnlineActors()
			r.Unregister(h)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, r.OnlineActors())
	assert.Empty(t, r.AllHandles())
}
