package orm

import (
	"context"
	"log/slog"
	"strings"
)

type core struct {
	dialect Dialect
	logger  *slog.Logger
	testing bool

	mdls []Middleware
}

// chain 把中间件套在 root 外面, 先注册的在最外层
func (c core) chain(root Handler) Handler {
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root
}

// statementType 语句的第一个关键字, 大写
func statementType(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if idx := strings.IndexFunc(stmt, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '('
	}); idx >= 0 {
		stmt = stmt[:idx]
	}
	return strings.ToUpper(stmt)
}

func (c core) queryContext(stmt string, args []any) *QueryContext {
	return &QueryContext{
		Type:     statementType(stmt),
		Query:    &Query{SQL: stmt, Args: args},
		Provider: c.dialect.Name(),
	}
}

func query(ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	root := db.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return queryHandler(ctx, db, qc)
	})
	return root(ctx, qc)
}

func exec(ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	root := db.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return execHandler(ctx, db, qc)
	})
	return root(ctx, qc)
}
