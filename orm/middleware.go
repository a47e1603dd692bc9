package orm

import (
	"context"
)

type QueryContext struct {
	// Type 声明查询类型 即 SELECT, UPDATE, DELETE 和 INSERT
	// 查询表结构的时候是 PRAGMA 或者 SHOW
	Type string

	// Query 要执行的语句, 中间件可以篡改它
	Query *Query

	// Provider 数据库名字
	Provider string
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type QueryResult struct {
	// Result 在不同的查询里面, 类型是不同的
	// DB.Query 里面是 []Row
	// DB.ExecCommit 里面是 int64, 即最后插入的ID
	Result any
	Err    error
}
