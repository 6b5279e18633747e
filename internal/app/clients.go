package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/consultancy-backend/internal/clients/redis"
	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
	"github.com/yungbote/consultancy-backend/internal/realtime"
)

type Clients struct {
	Redis  *goredis.Client
	Bus    redis.EventBus
	Hub    *realtime.Hub
	Events events.Publisher
}

// wireClients connects to redis when configured. With redis, events go out on
// the bus and come back to the hub through the forwarder; without it the hub
// receives them directly.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	hub := realtime.NewHub(log)

	rcfg := cfg.RedisConfig()
	if !rcfg.Enabled() {
		log.Info("redis not configured; record-change events stay in-process")
		return Clients{Hub: hub, Events: hub}, nil
	}
	rdb, err := redis.NewClient(ctx, rcfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	bus, err := redis.NewEventBus(rdb, rcfg.Channel, log)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	return Clients{Redis: rdb, Bus: bus, Hub: hub, Events: bus}, nil
}

// startForwarder relays bus events into the hub until ctx is done.
func (c *Clients) startForwarder(ctx context.Context) error {
	if c == nil || c.Bus == nil || c.Hub == nil {
		return nil
	}
	return c.Bus.StartForwarder(ctx, c.Hub.Broadcast)
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
