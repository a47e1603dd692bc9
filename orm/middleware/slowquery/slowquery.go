package slowquery

import (
	"context"
	"log/slog"
	"time"

	"github.com/startdusk/saltyorm/orm"
)

type MiddlewareBuilder struct {
	logger *slog.Logger

	// 慢查询阈值, 设置需要考虑公司实际情况, 如100ms
	threshold time.Duration
}

func NewMiddlewareBuilder(threshold time.Duration, logger *slog.Logger) *MiddlewareBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &MiddlewareBuilder{
		logger:    logger,
		threshold: threshold,
	}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			startTime := time.Now()
			defer func() {
				duration := time.Since(startTime)
				// 不是慢查询
				if duration <= m.threshold {
					return
				}
				// 参数不打印, 避免泄露敏感数据
				m.logger.WarnContext(ctx, "orm: slow query",
					slog.String("type", qc.Type),
					slog.String("sql", qc.Query.SQL),
					slog.Duration("duration", duration),
					slog.Duration("threshold", m.threshold),
				)
			}()

			return next(ctx, qc)
		}
	}
}
