// Package test 是用于辅助测试的包。仅限于内部使用
package test

import (
	"github.com/startdusk/saltyorm/orm"
)

// UserTable 测试用的表名
const UserTable = "user"

// CreateUserSQL 建表语句, 包含 ORM 维护的 id, created, modified
func CreateUserSQL(provider string) string {
	if provider == orm.ProviderMySQL {
		return "CREATE TABLE IF NOT EXISTS `user` (" +
			"`id` BIGINT PRIMARY KEY AUTO_INCREMENT, " +
			"`created` DATETIME(6) NULL, " +
			"`modified` DATETIME(6) NULL, " +
			"`name` VARCHAR(64) NULL, " +
			"`age` INT NULL, " +
			"`tags` VARCHAR(255) NULL, " +
			"`last_login` DATETIME NULL)"
	}
	return "CREATE TABLE IF NOT EXISTS user (" +
		"id INTEGER PRIMARY KEY AUTOINCREMENT, " +
		"created DATETIME, " +
		"modified DATETIME, " +
		"name TEXT, " +
		"age INTEGER, " +
		"tags TEXT, " +
		"last_login DATETIME)"
}

// UserFields 建表语句中字段的顺序
func UserFields() []string {
	return []string{"id", "created", "modified", "name", "age", "tags", "last_login"}
}

// Users 测试数据, 名字有重复
func Users() []orm.F {
	return []orm.F{
		{"name": "Jane", "age": 20, "tags": []string{"admin", "dev"}},
		{"name": "John", "age": 21},
		{"name": "Patrick", "age": 22},
		{"name": "Jane", "age": 23, "last_login": "2022-01-02 15:04:05"},
	}
}
