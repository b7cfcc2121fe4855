package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestContextHandlerAddsTraceAndActor(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), TraceIDKey, "t-1")
	ctx = context.WithValue(ctx, ActorIDKey, "admin-1")
	l.With("component", "test").InfoContext(ctx, "hello")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "t-1", lines[0][TraceIDKey])
	assert.Equal(t, "admin-1", lines[0]["actor_id"])
	assert.Equal(t, "test", lines[0]["component"])
}

func TestRemoteFilterSkipsUntracedInfo(t *testing.T) {
	var local, remote bytes.Buffer
	l := log.New(&ContextHandler{&TeeHandler{handlers: []log.Handler{
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	}}})

	l.Info("startup")
	l.Warn("sync failed")
	l.InfoContext(context.WithValue(context.Background(), TraceIDKey, "t-2"), "request")

	assert.Len(t, decodeLines(t, &local), 3)
	forwarded := decodeLines(t, &remote)
	require.Len(t, forwarded, 2)
	assert.Equal(t, "sync failed", forwarded[0]["msg"])
	assert.Equal(t, "request", forwarded[1]["msg"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	long := strings.Repeat("x", bodyLogLimit+10)
	assert.True(t, strings.HasSuffix(truncate(long), "...[truncated]"))
	assert.Len(t, truncate(long), bodyLogLimit+len("...[truncated]"))
}
