package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/observability"
	"github.com/yungbote/consultancy-backend/internal/platform/ctxutil"
	"github.com/yungbote/consultancy-backend/internal/platform/dbctx"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

var tracer = observability.Tracer("services")

// Clock supplies "now" to services that depend on the calendar.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// OptionalString distinguishes an omitted JSON field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	o.Value = &s
	return nil
}

// runInTx runs fn inside the caller's transaction, or opens one on db.
func runInTx(db *gorm.DB, dbc dbctx.Context, fn func(inner dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}

func startSpan(dbc dbctx.Context, name string, attrs ...attribute.KeyValue) (dbctx.Context, trace.Span) {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return dbctx.Context{Ctx: ctx, Tx: dbc.Tx}, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// emitter publishes record-change events after successful writes. Publish
// failures are logged and counted but never fail the write.
type emitter struct {
	pub     events.Publisher
	metrics *observability.Metrics
	log     *logger.Logger
}

func (e emitter) emit(ctx context.Context, ev events.Event) {
	if e.pub == nil {
		return
	}
	status := "ok"
	if err := e.pub.Publish(ctx, ev); err != nil {
		status = "error"
		if e.log != nil {
			fields := append([]interface{}{"entity", ev.Entity, "action", ev.Action, "error", err}, ctxutil.LogFields(ctx)...)
			e.log.Warn("event publish failed", fields...)
		}
	}
	e.metrics.IncEventPublished(string(ev.Entity), string(ev.Action), status)
}
