package realtime

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

// Options configures the Redis-backed transport. The app key namespaces
// every channel on the wire so several apps can share one broker.
type Options struct {
	AppKey  string
	Host    string
	Port    string
	UseTLS  bool
	Cluster string
}

// RedisTransport delivers channel events over Redis pub/sub. Messages
// are JSON envelopes {"event": ..., "data": ...}; anything that does
// not decode is dropped and logged, never handed to a handler.
type RedisTransport struct {
	opts   Options
	client *redis.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// WireChannel is the physical channel name for a logical channel: the
// app key namespace plus the dot-joined segments.
func WireChannel(appKey, channel string) string {
	return appKey + ":" + channel
}

// NewRedisTransport connects to the broker and verifies it is
// reachable.
func NewRedisTransport(opts Options) (*RedisTransport, error) {
	var tlsConfig *tls.Config
	if opts.UseTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      net.JoinHostPort(opts.Host, opts.Port),
		TLSConfig: tlsConfig,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		client.Close()
		return nil, err
	}

	logger.Debug().
		Str("host", opts.Host).
		Str("port", opts.Port).
		Str("cluster", opts.Cluster).
		Msg("Realtime transport connected")

	return &RedisTransport{opts: opts, client: client, ctx: ctx, cancel: cancel}, nil
}

func (t *RedisTransport) Subscribe(channel string) (Subscription, error) {
	pubsub := t.client.Subscribe(t.ctx, WireChannel(t.opts.AppKey, channel))
	// Force the SUBSCRIBE round trip so a dead broker surfaces here
	// instead of as silence later.
	if _, err := pubsub.Receive(t.ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		channel:  channel,
		pubsub:   pubsub,
		handlers: make(map[string]Handler),
	}
	go sub.loop()
	return sub, nil
}

func (t *RedisTransport) Disconnect() {
	t.cancel()
	if err := t.client.Close(); err != nil {
		logger.Debug().Err(err).Msg("Realtime transport close")
	}
}

type redisSubscription struct {
	channel string
	pubsub  *redis.PubSub

	mu       sync.Mutex
	handlers map[string]Handler
}

func (s *redisSubscription) Bind(event string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = h
}

func (s *redisSubscription) UnbindAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = make(map[string]Handler)
}

func (s *redisSubscription) Unsubscribe() {
	if err := s.pubsub.Close(); err != nil {
		logger.Debug().Err(err).Str("channel", s.channel).Msg("Unsubscribe")
	}
}

// loop dispatches envelopes to bound handlers in delivery order. It
// exits when the subscription closes.
func (s *redisSubscription) loop() {
	for msg := range s.pubsub.Channel() {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			logger.Warn().Err(err).Str("channel", s.channel).Msg("Dropping undecodable realtime message")
			continue
		}
		if env.Event == "" {
			logger.Warn().Str("channel", s.channel).Msg("Dropping realtime message without event name")
			continue
		}

		s.mu.Lock()
		h := s.handlers[env.Event]
		s.mu.Unlock()
		if h != nil {
			h(env.Data)
		}
	}
}
