package orm

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// ColumnCache 缓存表字段, 多个 Model 共享
// 默认每次 NewModel 都会查一次表结构, 表多且创建频繁的时候可以用它减少查询
// 同一张表并发加载的时候只会查一次数据库
type ColumnCache struct {
	cache *lru.Cache[string, []string]
	g     singleflight.Group
}

func NewColumnCache(size int) (*ColumnCache, error) {
	c, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &ColumnCache{cache: c}, nil
}

func cacheKey(provider, table string) string {
	return provider + ":" + table
}

func (c *ColumnCache) columns(ctx context.Context, conn Connection, d Dialect, table string) ([]string, error) {
	key := cacheKey(d.Name(), table)
	if cols, ok := c.cache.Get(key); ok {
		return cloneStrings(cols), nil
	}
	val, err, _ := c.g.Do(key, func() (any, error) {
		// double check, 上一次加载可能刚刚结束
		if cols, ok := c.cache.Get(key); ok {
			return cols, nil
		}
		cols, err := queryColumns(ctx, conn, d, table)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, cols)
		return cols, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneStrings(val.([]string)), nil
}

// Invalidate 表结构变更之后需要清掉缓存
func (c *ColumnCache) Invalidate(provider, table string) {
	c.cache.Remove(cacheKey(provider, table))
}

func (c *ColumnCache) Purge() {
	c.cache.Purge()
}

func (c *ColumnCache) Len() int {
	return c.cache.Len()
}

// discoverColumns 查询表的字段名, 保持表定义中的顺序
func discoverColumns(ctx context.Context, conn Connection, table string, cache *ColumnCache) ([]string, error) {
	if table == "" {
		return nil, errs.ErrModelConfiguration
	}
	d, err := DialectOf(conn.Provider())
	if err != nil {
		return nil, err
	}
	if cache != nil {
		return cache.columns(ctx, conn, d, table)
	}
	return queryColumns(ctx, conn, d, table)
}

func queryColumns(ctx context.Context, conn Connection, d Dialect, table string) ([]string, error) {
	rows, err := conn.Query(ctx, d.columnsQuery(table), nil)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		name, ok := d.columnName(row)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cols = append(cols, name)
	}
	return cols, nil
}
