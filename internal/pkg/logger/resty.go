package logger

import (
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const restySlowThreshold = time.Second

// AttachResty 为 resty 客户端挂载请求日志
func AttachResty(c *resty.Client, name string) *resty.Client {
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		req := resp.Request
		fields := []any{
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Int("status", resp.StatusCode()),
			log.Duration("latency", resp.Time()),
		}

		switch {
		case resp.IsError():
			log.WarnContext(req.Context(), "HTTP_CLIENT_FAILED", append(fields, log.String("res_body", truncate(resp.String())))...)
		case resp.Time() > restySlowThreshold:
			log.WarnContext(req.Context(), "HTTP_CLIENT_SLOW", fields...)
		default:
			log.InfoContext(req.Context(), "HTTP_CLIENT", fields...)
		}
		return nil
	})

	c.OnError(func(req *resty.Request, err error) {
		log.ErrorContext(req.Context(), "HTTP_CLIENT_ERROR",
			log.String("client", name),
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("err", err),
		)
	})

	return c
}
