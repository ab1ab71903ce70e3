package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/infigaming-com/notification-service/util"
)

type loggingMiddlewareOptions struct {
	lg           *zap.Logger
	debugEnabled bool
	excludePaths []string
}

type LoggingMiddlewareOption func(*loggingMiddlewareOptions)

func WithLogger(lg *zap.Logger) LoggingMiddlewareOption {
	return func(o *loggingMiddlewareOptions) {
		o.lg = lg
	}
}

func WithDebugEnabled(debugEnabled bool) LoggingMiddlewareOption {
	return func(o *loggingMiddlewareOptions) {
		o.debugEnabled = debugEnabled
	}
}

// WithExcludePaths skips request/response logging for paths under the given
// prefixes. Websocket endpoints must be excluded: their connections are
// hijacked and never produce a response body to capture.
func WithExcludePaths(excludePaths []string) LoggingMiddlewareOption {
	return func(o *loggingMiddlewareOptions) {
		o.excludePaths = excludePaths
	}
}

func defaultLoggingMiddlewareOptions() *loggingMiddlewareOptions {
	return &loggingMiddlewareOptions{
		lg:           zap.L(),
		debugEnabled: true,
	}
}

func LoggingMiddleware(opts ...LoggingMiddlewareOption) gin.HandlerFunc {
	cfg := defaultLoggingMiddlewareOptions()

	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		excluded := lo.SomeBy(cfg.excludePaths, func(prefix string) bool {
			return strings.HasPrefix(c.Request.URL.Path, prefix)
		})
		if excluded {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		correlationId, err := util.CorrelationIdFromCtx(ctx)
		if err != nil {
			cfg.lg.Warn("failed to get correlation id", zap.Error(err))
			correlationId = uuid.New().String()
		}

		startTime := time.Now()
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		rw := &responseWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer([]byte{})}
		c.Writer = rw

		c.Next()

		responseBody := rw.body.Bytes()
		if len(responseBody) > 1024 {
			responseBody = responseBody[:1024]
		}

		if cfg.debugEnabled {
			cfg.lg.Debug("[Logging]", zap.String("CorrelationID: ", correlationId),
				zap.String("method", c.Request.Method),
				zap.String("url", c.Request.URL.String()),
				zap.Any("queryParams", c.Request.URL.Query()),
				zap.ByteString("requestBody", requestBody),
				zap.Int("status", c.Writer.Status()),
				zap.ByteString("responseBody", responseBody),
				zap.Duration("duration", time.Since(startTime)),
			)
		}
	}
}
