package nodelete

import (
	"context"
	"fmt"
	"regexp"

	"github.com/startdusk/saltyorm/orm"
)

var whereRegexp = regexp.MustCompile(`(?i)\bWHERE\b`)

// MiddlewareBuilder 强制 UPDATE, DELETE 必须带 WHERE
// 防止 Model 之外手写的语句误删整张表
type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			if qc.Type != "UPDATE" && qc.Type != "DELETE" {
				return next(ctx, qc)
			}
			if !whereRegexp.MatchString(qc.Query.SQL) {
				return &orm.QueryResult{
					Err: fmt.Errorf("%w: 禁止执行没有WHERE的 %s 语句", orm.ErrInvalidStatement, qc.Type),
				}
			}
			return next(ctx, qc)
		}
	}
}
