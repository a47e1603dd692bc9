package safedml

import (
	"context"
	"fmt"

	"github.com/startdusk/saltyorm/orm"
)

// MiddlewareBuilder 只读模式, 只放行查询语句
// 用于只读副本或者命令行工具
type MiddlewareBuilder struct {
	allowed map[string]struct{}
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		allowed: map[string]struct{}{
			"SELECT":  {},
			"WITH":    {},
			"PRAGMA":  {},
			"SHOW":    {},
			"EXPLAIN": {},
		},
	}
}

// Allow 额外放行的语句类型, 如 INSERT
func (m *MiddlewareBuilder) Allow(types ...string) *MiddlewareBuilder {
	for _, t := range types {
		m.allowed[t] = struct{}{}
	}
	return m
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			if _, ok := m.allowed[qc.Type]; ok {
				return next(ctx, qc)
			}
			return &orm.QueryResult{
				Err: fmt.Errorf("%w: 只读模式禁止执行 %s 语句", orm.ErrInvalidStatement, qc.Type),
			}
		}
	}
}
