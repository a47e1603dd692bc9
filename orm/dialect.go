package orm

import (
	"fmt"
	"strings"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

var (
	DialectMySQL  Dialect = &mysqlDialect{}
	DialectSQLite Dialect = &sqliteDialect{}
)

const (
	ProviderSQLite = "sqlite3"
	ProviderMySQL  = "mysql"
)

type Dialect interface {
	// Name 即 Connection.Provider
	Name() string
	// Placeholder 参数占位符
	Placeholder() string

	// quoter 就是为了解决引号问题
	// MySQL 反引号 `
	// SQLite 也支持反引号
	quoter() byte

	// columnsQuery 查询表字段的语句
	columnsQuery(table string) string
	// columnName 从表结构查询结果的一行中取出字段名
	columnName(row Row) (string, bool)
	// textBytes 驱动是否把文本列读成 []byte
	// MySQL 的文本协议是这样的, SQLite 只有 BLOB 才是 []byte
	textBytes() bool
}

// DialectOf 根据 Connection.Provider 找到对应的方言
func DialectOf(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case ProviderSQLite, "sqlite":
		return DialectSQLite, nil
	case ProviderMySQL, "mariadb":
		return DialectMySQL, nil
	default:
		return nil, errs.NewErrUnsupportedProvider(provider)
	}
}

type standardSQL struct{}

func (d standardSQL) quoter() byte {
	return '`'
}

func (d standardSQL) Placeholder() string {
	return "?"
}

type mysqlDialect struct {
	standardSQL
}

func (d mysqlDialect) Name() string {
	return ProviderMySQL
}

func (d mysqlDialect) columnsQuery(table string) string {
	return fmt.Sprintf("SHOW COLUMNS FROM %s", table)
}

func (d mysqlDialect) columnName(row Row) (string, bool) {
	return stringColumn(row, "Field")
}

func (d mysqlDialect) textBytes() bool {
	return true
}

type sqliteDialect struct {
	standardSQL
}

func (d sqliteDialect) Name() string {
	return ProviderSQLite
}

func (d sqliteDialect) columnsQuery(table string) string {
	return fmt.Sprintf(`PRAGMA table_info("%s")`, table)
}

func (d sqliteDialect) columnName(row Row) (string, bool) {
	return stringColumn(row, "name")
}

func (d sqliteDialect) textBytes() bool {
	return false
}

func stringColumn(row Row, key string) (string, bool) {
	switch v := row[key].(type) {
	case string:
		return v, v != ""
	case []byte:
		return string(v), len(v) > 0
	default:
		return "", false
	}
}
