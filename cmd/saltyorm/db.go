package main

import (
	"context"
	"log/slog"

	"github.com/startdusk/saltyorm/internal/config"
	"github.com/startdusk/saltyorm/orm"
	"github.com/startdusk/saltyorm/orm/middleware/querylog"
	"github.com/startdusk/saltyorm/orm/middleware/safedml"
	"github.com/startdusk/saltyorm/orm/middleware/slowquery"
	"github.com/startdusk/saltyorm/orm/mysql"
	"github.com/startdusk/saltyorm/orm/sqlite3"
)

// openDB 命令行工具只读, 所有写语句都会被拦截
func openDB(cfg *config.Config, logger *slog.Logger) (*orm.DB, error) {
	mdls := []orm.Middleware{safedml.NewMiddlewareBuilder().Build()}
	if cfg.LogQueries {
		ql := querylog.NewMiddlewareBuilder(logger)
		if cfg.LogArgs {
			ql = ql.LogArgs()
		}
		mdls = append(mdls, ql.Build())
	}
	if cfg.SlowQueryThreshold > 0 {
		mdls = append(mdls, slowquery.NewMiddlewareBuilder(cfg.SlowQueryThreshold, logger).Build())
	}

	opts := []orm.DBOption{
		orm.DBWithLogger(logger),
		orm.DBWithMiddlewares(mdls...),
	}
	if cfg.Testing {
		opts = append(opts, orm.DBForTesting())
	}

	switch cfg.Provider {
	case orm.ProviderMySQL:
		return mysql.OpenDSN(cfg.DSN, opts...)
	default:
		return sqlite3.Open(cfg.DSN, opts...)
	}
}

type session struct {
	db    *orm.DB
	cache *orm.ColumnCache
}

func newSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	db, err := openDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &session{db: db}
	if cfg.ColumnCacheSize > 0 {
		s.cache, err = orm.NewColumnCache(cfg.ColumnCacheSize)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) model(ctx context.Context, table string) (*orm.Model, error) {
	var opts []orm.ModelOption
	if s.cache != nil {
		opts = append(opts, orm.WithColumnCache(s.cache))
	}
	return orm.NewModel(ctx, s.db, table, opts...)
}

func (s *session) Close() error {
	return s.db.Close()
}
