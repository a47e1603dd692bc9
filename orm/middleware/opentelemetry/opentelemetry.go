package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/startdusk/saltyorm/orm"
)

const instrumentationName = "github.com/startdusk/saltyorm/orm/middleware/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			// span name: provider-SELECT
			spanCtx, span := m.Tracer.Start(ctx, qc.Provider+"-"+qc.Type)
			defer span.End()

			// tracing这里没必要记录参数, 防止数据过大(如 blob), 防止敏感数据被记录到tracing(如 用户密码)
			span.SetAttributes(
				attribute.String("sql", qc.Query.SQL),
				attribute.String("db.system", qc.Provider),
				attribute.String("component", "orm"),
			)

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, res.Err.Error())
			}
			return res
		}
	}
}
