// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var base zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	base = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()
}

// Init 根据服务名重建全局 logger，通常在 bootstrap 中调用一次。
func Init(serviceName string) {
	base = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Caller().
		Logger()
}

// Logger 返回全局 logger，不携带任何链路信息。
func Logger() *zerolog.Logger {
	return &base
}

// Ctx 返回一个绑定了链路上下文的 logger。
// 如果 ctx 中存在有效的 Span，会自动附带 trace_id/span_id，方便日志与 Jaeger 关联。
func Ctx(ctx context.Context) *zerolog.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return &base
	}
	l := base.With().
		Str("trace_id", spanCtx.TraceID().String()).
		Str("span_id", spanCtx.SpanID().String()).
		Logger()
	return &l
}
