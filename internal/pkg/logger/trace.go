package logger

import (
	"context"
	log "log/slog"
)

// Context 中的 Key，由 HTTP 中间件、定时任务和消费者写入
const (
	TraceIDKey = "trace_id"
	ActorIDKey = "user_id"
)

// ContextHandler 从 ctx 中提取 trace_id 与发起操作的管理员
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
		if actorID, ok := ctx.Value(ActorIDKey).(string); ok && actorID != "" {
			r.AddAttrs(log.String("actor_id", actorID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
