package repository

import (
	"context"
	"encoding/json"
	"strings"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const relayChannelPrefix = "realtime:actor:"

// RelayEnvelope event addressed to an actor, crossing nodes
type RelayEnvelope struct {
	OriginNode string            `json:"origin_node"`
	Actor      domain.ActorRef   `json:"actor"`
	Event      domain.WSResponse `json:"event"`
}

// Relay definition cross node push
type Relay interface {
	Publish(ctx context.Context, env RelayEnvelope) error
	Subscribe(ctx context.Context, handler func(env RelayEnvelope)) error
}

// RedisRelay redis pub/sub relay, one channel per actor
type RedisRelay struct {
	client *redis.Client
}

// NewRedisRelay create RedisRelay
func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

// RelayChannel channel name of an actor
func RelayChannel(actor domain.ActorRef) string {
	return relayChannelPrefix + actor.Key()
}

// Publish 將 envelope 序列化後，發布到 actor channel
func (r *RedisRelay) Publish(ctx context.Context, env RelayEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, RelayChannel(env.Actor), data).Err()
}

// Subscribe 訂閱所有 actor channel，收到訊息後呼叫 handler 處理，ctx 結束時關閉訂閱
func (r *RedisRelay) Subscribe(ctx context.Context, handler func(env RelayEnvelope)) error {
	sub := r.client.PSubscribe(ctx, relayChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				var env RelayEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					logger.Log.Error("relay unmarshal err", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				if env.Actor.ID == "" {
					if ref, ok := domain.ParseActorKey(strings.TrimPrefix(m.Channel, relayChannelPrefix)); ok {
						env.Actor = ref
					}
				}
				handler(env)
			case <-ctx.Done():
				logger.Log.Info("relay subscription closed")
				return
			}
		}
	}()
	return nil
}
