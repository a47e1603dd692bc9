// Package mysql 基于 github.com/go-sql-driver/mysql 的 Connection
package mysql

import (
	"database/sql"

	driver "github.com/go-sql-driver/mysql"

	"github.com/startdusk/saltyorm/orm"
)

// NewConfig 常用的默认配置
// ParseTime 打开之后 DATETIME 会被扫描成 time.Time
func NewConfig(addr, user, passwd, dbName string) *driver.Config {
	cfg := driver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.User = user
	cfg.Passwd = passwd
	cfg.DBName = dbName
	cfg.ParseTime = true
	return cfg
}

// Open 根据配置打开 MySQL 连接
func Open(cfg *driver.Config, opts ...orm.DBOption) (*orm.DB, error) {
	return OpenDSN(cfg.FormatDSN(), opts...)
}

// OpenDSN 使用 DSN 打开, 如 root:root@tcp(localhost:13306)/integration_test
func OpenDSN(dsn string, opts ...orm.DBOption) (*orm.DB, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if !cfg.ParseTime {
		cfg.ParseTime = true
	}
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	opts = append([]orm.DBOption{orm.DBWithDialect(orm.DialectMySQL)}, opts...)
	return orm.OpenDB(db, opts...)
}
