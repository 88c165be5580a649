package database

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/config"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
	"github.com/JoseMokeni/lecoursier-mobile-app-user/pkg/logger"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Realtime events will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// PublishEvent pushes one envelope onto a logical channel. Publishing
// is best-effort: a broker outage degrades clients to REST-only and is
// only logged here.
func PublishEvent(channel, event string, data interface{}) {
	if Redis == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error().Err(err).Str("event", event).Msg("Failed to encode event payload")
		return
	}
	env, err := json.Marshal(realtime.Envelope{Event: event, Data: raw})
	if err != nil {
		logger.Error().Err(err).Str("event", event).Msg("Failed to encode event envelope")
		return
	}

	wire := realtime.WireChannel(config.AppConfig.RealtimeAppKey, channel)
	if err := Redis.Publish(Ctx, wire, env).Err(); err != nil {
		logger.Warn().Err(err).Str("channel", channel).Str("event", event).Msg("Failed to publish event")
	}
}
