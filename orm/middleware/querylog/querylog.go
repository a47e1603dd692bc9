package querylog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/startdusk/saltyorm/orm"
)

type MiddlewareBuilder struct {
	logger *slog.Logger
	// SQL参数可能存在敏感数据(如 用户密码), 默认不打印
	logArgs bool
}

func NewMiddlewareBuilder(logger *slog.Logger) *MiddlewareBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &MiddlewareBuilder{
		logger: logger,
	}
}

// LogArgs 打印参数
func (m *MiddlewareBuilder) LogArgs() *MiddlewareBuilder {
	m.logArgs = true
	return m
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			attrs := make([]any, 0, 8)
			attrs = append(attrs,
				slog.String("query_id", uuid.NewString()),
				slog.String("type", qc.Type),
				slog.String("provider", qc.Provider),
				slog.String("sql", qc.Query.SQL),
			)
			if m.logArgs {
				attrs = append(attrs, slog.Any("args", qc.Query.Args))
			}

			startTime := time.Now()
			res := next(ctx, qc)
			attrs = append(attrs, slog.Duration("duration", time.Since(startTime)))
			if res.Err != nil {
				attrs = append(attrs, slog.Any("err", res.Err))
				m.logger.ErrorContext(ctx, "orm: query", attrs...)
				return res
			}
			m.logger.InfoContext(ctx, "orm: query", attrs...)
			return res
		}
	}
}
