package orm

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/startdusk/saltyorm/orm/internal/errs"
	"github.com/startdusk/saltyorm/orm/internal/valuer"
)

var (
	_ Connection = &DB{}
)

type DBOption func(db *DB)

// DB 基于 database/sql 的 Connection 实现
// 所有语句都会经过中间件
type DB struct {
	core
	db     *sql.DB
	closed atomic.Bool
}

// Open 根据驱动名选择方言, 驱动需要事先注册
// 例如 import _ "github.com/mattn/go-sqlite3"
func Open(driver string, dataSourceName string, opts ...DBOption) (*DB, error) {
	d, err := DialectOf(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	opts = append([]DBOption{DBWithDialect(d)}, opts...)
	return OpenDB(db, opts...)
}

// OpenDB 默认使用 MySQL 方言
func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	newDB := &DB{
		core: core{
			dialect: DialectMySQL,
			logger:  slog.Default(),
		},
		db: db,
	}

	for _, opt := range opts {
		opt(newDB)
	}

	return newDB, nil
}

func MustOpenDB(db *sql.DB, opts ...DBOption) *DB {
	newDB, err := OpenDB(db, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func MustOpen(driver string, dataSourceName string, opts ...DBOption) *DB {
	newDB, err := Open(driver, dataSourceName, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func DBWithDialect(dialect Dialect) DBOption {
	return func(db *DB) {
		db.dialect = dialect
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = append(db.mdls, mdls...)
	}
}

func DBWithLogger(logger *slog.Logger) DBOption {
	return func(db *DB) {
		db.logger = logger
	}
}

// DBForTesting 标记为测试连接, NewModel 不会查询表结构
func DBForTesting() DBOption {
	return func(db *DB) {
		db.testing = true
	}
}

func (db *DB) Connected() bool {
	return db.db != nil && !db.closed.Load()
}

func (db *DB) Placeholder() string {
	return db.dialect.Placeholder()
}

func (db *DB) Provider() string {
	return db.dialect.Name()
}

func (db *DB) Testing() bool {
	return db.testing
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) Query(ctx context.Context, stmt string, args []any) ([]Row, error) {
	if err := db.check(stmt); err != nil {
		return nil, err
	}
	qc := db.queryContext(stmt, args)
	db.logger.DebugContext(ctx, "orm: 查询", slog.String("type", qc.Type), slog.String("sql", stmt))
	res := query(ctx, db, qc)
	if res.Err != nil {
		return nil, res.Err
	}
	rows, _ := res.Result.([]Row)
	return rows, nil
}

func (db *DB) ExecCommit(ctx context.Context, stmt string, args []any) (int64, error) {
	if err := db.check(stmt); err != nil {
		return 0, err
	}
	qc := db.queryContext(stmt, args)
	db.logger.DebugContext(ctx, "orm: 执行", slog.String("type", qc.Type), slog.String("sql", stmt))
	res := exec(ctx, db, qc)
	if res.Err != nil {
		return 0, res.Err
	}
	id, _ := res.Result.(int64)
	return id, nil
}

func (db *DB) check(stmt string) error {
	if !db.Connected() {
		return errs.ErrNotConnected
	}
	if strings.TrimSpace(stmt) == "" {
		return errs.ErrInvalidStatement
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	if !db.Connected() {
		return errs.ErrNotConnected
	}
	return db.db.PingContext(ctx)
}

// Close 关闭之后 Connected 返回 false, 重复关闭不会报错
func (db *DB) Close() error {
	if db.db == nil || !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	return db.db.Close()
}

func queryHandler(ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	qr := &QueryResult{}
	rows, err := db.db.QueryContext(ctx, qc.Query.SQL, qc.Query.Args...)
	if err != nil {
		db.logger.ErrorContext(ctx, "orm: 查询失败", slog.String("sql", qc.Query.SQL), slog.Any("err", err))
		qr.Err = errs.NewErrExecStatementFailed(err)
		return qr
	}
	defer func() {
		_ = rows.Close()
	}()

	data, err := valuer.Scan(rows, db.dialect.textBytes())
	if err != nil {
		qr.Err = errs.NewErrExecStatementFailed(err)
		return qr
	}
	res := make([]Row, 0, len(data))
	for _, r := range data {
		res = append(res, r)
	}
	qr.Result = res
	return qr
}

// execHandler 返回最后插入的ID, 驱动不支持或者不是 INSERT 的时候返回 1
func execHandler(ctx context.Context, db *DB, qc *QueryContext) *QueryResult {
	qr := &QueryResult{}
	res, err := db.db.ExecContext(ctx, qc.Query.SQL, qc.Query.Args...)
	if err != nil {
		db.logger.ErrorContext(ctx, "orm: 执行失败", slog.String("sql", qc.Query.SQL), slog.Any("err", err))
		qr.Err = errs.NewErrExecStatementFailed(err)
		return qr
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		id = 1
	}
	qr.Result = id
	return qr
}
