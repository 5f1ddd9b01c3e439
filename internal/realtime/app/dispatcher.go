package app

import (
	"context"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/metrics"

	"go.uber.org/zap"
)

// Dispatcher push events to live handles of this node, and to other nodes through the relay
type Dispatcher struct {
	nodeID   string
	registry *presence.Registry
	relay    repository.Relay
}

// NewDispatcher relay may be nil for a single node deployment
func NewDispatcher(nodeID string, registry *presence.Registry, relay repository.Relay) *Dispatcher {
	return &Dispatcher{nodeID: nodeID, registry: registry, relay: relay}
}

// Reachable actor online here, or possibly on another node
func (d *Dispatcher) Reachable(actor domain.ActorRef) bool {
	return d.relay != nil || d.registry.IsOnline(actor)
}

// ToActor push to every handle of actor except the skipped handle ids, returns local deliveries
func (d *Dispatcher) ToActor(ctx context.Context, actor domain.ActorRef, evt domain.WSResponse, skip ...string) int {
	delivered := d.deliverLocal(actor, evt, skip)

	if d.relay != nil {
		env := repository.RelayEnvelope{OriginNode: d.nodeID, Actor: actor, Event: evt}
		if err := d.relay.Publish(ctx, env); err != nil {
			logger.Log.Warn("relay publish failed", zap.String("actor", actor.Key()), zap.String("event", evt.Event), zap.Error(err))
		} else {
			metrics.RelayPublished.Inc()
		}
	}
	return delivered
}

// Broadcast push to every local handle except one, presence events stay node local
func (d *Dispatcher) Broadcast(evt domain.WSResponse, except presence.Handle) int {
	delivered := 0
	for _, h := range d.registry.AllHandles() {
		if except != nil && h.ID() == except.ID() {
			continue
		}
		if h.Send(evt) {
			delivered++
		}
	}
	return delivered
}

func (d *Dispatcher) deliverLocal(actor domain.ActorRef, evt domain.WSResponse, skip []string) int {
	delivered := 0
	for _, h := range d.registry.HandlesFor(actor) {
		if pkg.Contains(skip, h.ID()) {
			continue
		}
		if h.Send(evt) {
			delivered++
		}
	}
	return delivered
}

// Run consume relay envelopes of other nodes until ctx done
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.relay == nil {
		return nil
	}
	return d.relay.Subscribe(ctx, func(env repository.RelayEnvelope) {
		if env.OriginNode == d.nodeID {
			return
		}
		d.deliverLocal(env.Actor, env.Event, nil)
	})
}
