package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/platform/ctxutil"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

func TestEncodeEventCarriesTraceData(t *testing.T) {
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{TraceID: "t-1", RequestID: "r-1"})
	id := uuid.New()
	raw, err := encodeEvent(ctx, events.New(events.EntityTask, id, events.ActionCreated, map[string]interface{}{"name": "design"}))
	if err != nil {
		t.Fatalf("encodeEvent: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["entity"] != "task" || got["action"] != "created" || got["entity_id"] != id.String() {
		t.Fatalf("unexpected payload %s", raw)
	}
	if got["trace_id"] != "t-1" || got["request_id"] != "r-1" {
		t.Fatalf("expected trace ids in payload, got %s", raw)
	}
}

func TestNewEventBusValidatesArgs(t *testing.T) {
	if _, err := NewEventBus(nil, "", logger.Nop()); err == nil {
		t.Fatalf("expected error for nil client")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	if _, err := NewEventBus(rdb, "", nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
	bus, err := NewEventBus(rdb, " ", logger.Nop())
	if err != nil {
		t.Fatalf("NewEventBus: %v", err)
	}
	if ch := bus.(*eventBus).channel; ch != DefaultChannel {
		t.Fatalf("channel=%q want %q", ch, DefaultChannel)
	}
}

func TestPublishFailsWhenRedisUnreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	bus, err := NewEventBus(rdb, "test", logger.Nop())
	if err != nil {
		t.Fatalf("NewEventBus: %v", err)
	}
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bus.Publish(ctx, events.New(events.EntityClient, uuid.New(), events.ActionCreated, nil)); err == nil {
		t.Fatalf("expected publish error against closed port")
	}
}

func TestDecodeEventRoundTripsEncoded(t *testing.T) {
	id := uuid.New()
	raw, err := encodeEvent(context.Background(), events.New(events.EntityInvoice, id, events.ActionStateChanged, nil))
	if err != nil {
		t.Fatalf("encodeEvent: %v", err)
	}
	ev, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if ev.Entity != events.EntityInvoice || ev.EntityID != id || ev.Action != events.ActionStateChanged {
		t.Fatalf("decoded: got=%+v", ev)
	}
	if _, err := decodeEvent([]byte(`{"entity_id":"x"}`)); err == nil {
		t.Fatalf("expected error for payload without entity")
	}
}
