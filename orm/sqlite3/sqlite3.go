// Package sqlite3 基于 github.com/mattn/go-sqlite3 的 Connection
package sqlite3

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/startdusk/saltyorm/orm"
)

// MemoryDSN 共享缓存的内存数据库, 同名的连接看到的是同一个库
func MemoryDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared"
}

// Open 打开 SQLite 数据库, dsn 可以是文件路径或者 MemoryDSN
func Open(dsn string, opts ...orm.DBOption) (*orm.DB, error) {
	return orm.Open(orm.ProviderSQLite, dsn, opts...)
}
