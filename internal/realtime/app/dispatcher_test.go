package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay loopback Relay shared by several dispatchers
type fakeRelay struct {
	mu        sync.Mutex
	published []repository.RelayEnvelope
	handlers  []func(repository.RelayEnvelope)
	failWith  error
	ready     chan struct{}
}

func newFakeRelay(subscribers int) *fakeRelay {
	return &fakeRelay{ready: make(chan struct{}, subscribers)}
}

func (r *fakeRelay) Publish(_ context.Context, env repository.RelayEnvelope) error {
	r.mu.Lock()
	if r.failWith != nil {
		r.mu.Unlock()
		return r.failWith
	}
	r.published = append(r.published, env)
	handlers := append([]func(repository.RelayEnvelope){}, r.handlers...)
	r.mu.Unlock()
	for _, h := range handlers {
		h(env)
	}
	return nil
}

func (r *fakeRelay) Subscribe(ctx context.Context, handler func(repository.RelayEnvelope)) error {
	r.mu.Lock()
	r.handlers = append(r.handlers, handler)
	r.mu.Unlock()
	r.ready <- struct{}{}
	<-ctx.Done()
	return nil
}

func TestDispatcherToActorSkipsHandles(t *testing.T) {
	logger.SetNewNop()
	registry := presence.NewRegistry()
	d := NewDispatcher("node-a", registry, nil)

	phone := newHandle("phone", ada)
	laptop := newHandle("laptop", ada)
	other := newHandle("other", acme)
	registry.Register(phone)
	registry.Register(laptop)
	registry.Register(other)

	n := d.ToActor(context.Background(), ada, domain.Push(domain.NewMessage, "x"), "phone")
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, phone.count(domain.NewMessage))
	assert.Equal(t, 1, laptop.count(domain.NewMessage))
	assert.Equal(t, 0, other.count(domain.NewMessage))

	assert.True(t, d.Reachable(ada))
	assert.False(t, d.Reachable(bob))
}

func TestDispatcherBroadcastExcept(t *testing.T) {
	logger.SetNewNop()
	registry := presence.NewRegistry()
	d := NewDispatcher("node-a", registry, nil)

	a := newHandle("a", ada)
	b := newHandle("b", acme)
	registry.Register(a)
	registry.Register(b)

	assert.Equal(t, 1, d.Broadcast(domain.Push(domain.UserOnline, nil), a))
	assert.Equal(t, 0, a.count(domain.UserOnline))
	assert.Equal(t, 1, b.count(domain.UserOnline))

	assert.Equal(t, 2, d.Broadcast(domain.Push(domain.UserOffline, nil), nil))
}

func TestDispatcherRelayCrossNode(t *testing.T) {
	logger.SetNewNop()
	relay := newFakeRelay(2)
	regA, regB := presence.NewRegistry(), presence.NewRegistry()
	nodeA := NewDispatcher("node-a", regA, relay)
	nodeB := NewDispatcher("node-b", regB, relay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = nodeA.Run(ctx) }()
	go func() { _ = nodeB.Run(ctx) }()
	for i := 0; i < 2; i++ {
		select {
		case <-relay.ready:
		case <-time.After(time.Second):
			t.Fatal("relay subscribe timeout")
		}
	}

	onA := newHandle("on-a", acme)
	onB := newHandle("on-b", acme)
	regA.Register(onA)
	regB.Register(onB)

	// relay 模式下一律視為可達
	assert.True(t, nodeA.Reachable(bob))

	delivered := nodeA.ToActor(ctx, acme, domain.Push(domain.NewNotification, "n"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, onA.count(domain.NewNotification))
	assert.Equal(t, 1, onB.count(domain.NewNotification))

	relay.mu.Lock()
	require.Len(t, relay.published, 1)
	assert.Equal(t, "node-a", relay.published[0].OriginNode)
	relay.mu.Unlock()
}

func TestDispatcherRelayFailureKeepsLocalDelivery(t *testing.T) {
	logger.SetNewNop()
	relay := newFakeRelay(0)
	relay.failWith = errors.New("redis down")
	registry := presence.NewRegistry()
	d := NewDispatcher("node-a", registry, relay)

	h := newHandle("h", ada)
	registry.Register(h)

	assert.Equal(t, 1, d.ToActor(context.Background(), ada, domain.Push(domain.NewMessage, "x")))
	assert.Equal(t, 1, h.count(domain.NewMessage))
}
