package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/platform/ctxutil"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

const DefaultChannel = "consultancy.events"

type eventBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

// EventBus publishes record-change events on a redis pub/sub channel and can
// forward the channel back into this process.
type EventBus interface {
	events.Publisher
	StartForwarder(ctx context.Context, onEvent func(ev events.Event)) error
}

func NewEventBus(rdb goredis.UniversalClient, channel string, log *logger.Logger) (EventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	ch := strings.TrimSpace(channel)
	if ch == "" {
		ch = DefaultChannel
	}
	return &eventBus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *eventBus) Publish(ctx context.Context, ev events.Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := encodeEvent(ctx, ev)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.log.Warn("redis publish failed", "entity", ev.Entity, "action", ev.Action, "error", err)
		return err
	}
	return nil
}

// StartForwarder subscribes to the channel and hands every decoded event to
// onEvent until ctx ends. Events published by this process come back too.
func (b *eventBus) StartForwarder(ctx context.Context, onEvent func(ev events.Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				ev, err := decodeEvent([]byte(m.Payload))
				if err != nil {
					b.log.Warn("bad redis event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *eventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encodeEvent(ctx context.Context, ev events.Event) ([]byte, error) {
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if ev.TraceID == "" {
			ev.TraceID = td.TraceID
		}
		if ev.RequestID == "" {
			ev.RequestID = td.RequestID
		}
	}
	return json.Marshal(ev)
}

func decodeEvent(raw []byte) (events.Event, error) {
	var ev events.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return events.Event{}, err
	}
	if ev.Entity == "" || ev.Action == "" {
		return events.Event{}, fmt.Errorf("event missing entity or action")
	}
	return ev, nil
}
