package orm

import (
	"context"
	"sort"
)

//go:generate mockgen -source=types.go -destination=mocks/connection.mock.go -package=mocks Connection

// Connection 是 ORM 核心依赖的数据库连接抽象
// 每种数据库(sqlite3, mysql)各有一个实现, 见 DB
type Connection interface {
	// Connected 连接是否可用
	Connected() bool
	// Placeholder 参数占位符, 如 ? 或 %s
	Placeholder() string
	// Provider 数据库名字, 用于选择表结构查询语句
	Provider() string
	// Testing 标记为测试替身的连接不做表结构查询
	Testing() bool

	// Query 执行会返回数据的语句, 用于 `SELECT`
	Query(ctx context.Context, stmt string, args []any) ([]Row, error)
	// ExecCommit 执行并提交 `INSERT`, `UPDATE`, `DELETE` 语句
	// 返回最后插入的ID, 拿不到的时候返回 1
	ExecCommit(ctx context.Context, stmt string, args []any) (int64, error)
}

// Row 一行数据, 列名 => 值
type Row map[string]any

// F 字段名 => 值, 用于构造等值查询条件
// 如 FilterBy(F{"name": "Tom"}) => name = ?
type F map[string]any

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Query 构造好的 SQL 语句和参数
type Query struct {
	SQL  string
	Args []any
}
