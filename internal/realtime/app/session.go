package app

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/pkg/config"
	errprocess "talent_realtime_service/pkg/err"
	"talent_realtime_service/pkg/logger"
	"talent_realtime_service/pkg/metrics"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// close reasons
const (
	CloseClient       = "client"
	CloseHeartbeat    = "heartbeat"
	CloseSlowConsumer = "slow_consumer"
	CloseWriteError   = "write_error"
	CloseShutdown     = "shutdown"
)

// Transport websocket connection, *websocket.Conn of gofiber satisfies it
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Session one authenticated websocket connection
type Session struct {
	id    string
	actor domain.ActorRef
	name  string
	conn  Transport
	cfg   config.SessionConfig

	send      chan domain.WSResponse
	done      chan struct{}
	closeOnce sync.Once
	reason    string
}

// NewSession wrap transport, cfg should have defaults applied
func NewSession(conn Transport, actor domain.ActorRef, name string, cfg config.SessionConfig) *Session {
	return &Session{
		id:    uuid.New().String(),
		actor: actor,
		name:  name,
		conn:  conn,
		cfg:   cfg,
		send:  make(chan domain.WSResponse, cfg.SendQueueSize),
		done:  make(chan struct{}),
	}
}

// ID handle id
func (s *Session) ID() string { return s.id }

// Actor authenticated actor
func (s *Session) Actor() domain.ActorRef { return s.actor }

// Name display name from the token
func (s *Session) Name() string { return s.name }

// Done closed when the session is closing
func (s *Session) Done() <-chan struct{} { return s.done }

// Send enqueue without blocking, a full queue closes the session as a slow consumer
func (s *Session) Send(evt domain.WSResponse) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- evt:
		return true
	case <-s.done:
		return false
	default:
		logger.Log.Warn("send queue full, closing session", zap.String("session", s.id), zap.String("actor", s.actor.Key()))
		go s.Close(CloseSlowConsumer)
		return false
	}
}

// Close idempotent, writes a close frame then closes the transport
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.reason = reason
		close(s.done)

		code, text := websocket.CloseNormalClosure, reason
		switch reason {
		case CloseSlowConsumer:
			code = websocket.CloseTryAgainLater
		case CloseShutdown:
			code = websocket.CloseGoingAway
		}
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, text),
			time.Now().Add(s.cfg.WriteTimeout))
		_ = s.conn.Close()
	})
}

// Reason why the session closed, empty while open
func (s *Session) Reason() string {
	select {
	case <-s.done:
		return s.reason
	default:
		return ""
	}
}

// Run start the writer and block in the read loop, inbound events are handled in arrival order
func (s *Session) Run(ctx context.Context, handle func(ctx context.Context, req domain.WSRequest)) {
	metrics.SessionsActive.Inc()
	defer metrics.SessionsActive.Dec()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.readLoop(ctx, handle)
	<-writerDone
	metrics.SessionsClosed.WithLabelValues(s.Reason()).Inc()
}

func (s *Session) readLoop(ctx context.Context, handle func(ctx context.Context, req domain.WSRequest)) {
	s.conn.SetReadLimit(s.cfg.ReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))
	//server發出ping之後client連線正常會回pong，延長讀取期限
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))
	})

	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			s.Close(readCloseReason(err))
			logger.Log.Debug("websocket read end", zap.String("session", s.id), zap.String("reason", s.Reason()), zap.Error(err))
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(s.cfg.HeartbeatTimeout))

		if mt != websocket.TextMessage {
			s.Send(ErrorResponse("", errprocess.New(errprocess.KindValidation, "only text frames are supported")))
			continue
		}
		var req domain.WSRequest
		if err := json.Unmarshal(data, &req); err != nil || req.Event == "" {
			s.Send(ErrorResponse("", errprocess.New(errprocess.KindValidation, "malformed payload")))
			continue
		}
		handle(ctx, req)
	}
}

// writeLoop only writer of data frames, also sends pings
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-s.send:
			data, err := json.Marshal(evt)
			if err != nil {
				logger.Log.Error("marshal ws response err", zap.String("event", evt.Event), zap.Error(err))
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.Close(CloseWriteError)
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				s.Close(CloseWriteError)
				return
			}
		case <-s.done:
			return
		}
	}
}

func readCloseReason(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CloseHeartbeat
	}
	return CloseClient
}
