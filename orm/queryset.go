package orm

import (
	"context"
	"math"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// End 切片的结束位置, 代表一直到最后
const End = math.MaxInt

// QuerySet 绑定到一个 Model 的查询
// 链式调用总是返回新的 QuerySet, 原来的 QuerySet 不变, 所以可以放心复用
// 查询是延迟执行的, 第一次取数据的时候才查数据库, 结果缓存在当前 QuerySet 上
// QuerySet 不是并发安全的
type QuerySet struct {
	conn  Connection
	model *Model
	query *Selector

	// 链式调用过程中出现的错误, 在生成 SQL 或者查询的时候返回
	err error

	// nil 代表还没查询, 和查询结果为空不一样
	cache []*Model
}

func NewQuerySet(conn Connection, model *Model) *QuerySet {
	table := ""
	if model != nil {
		table = model.table
	}
	return &QuerySet{
		conn:  conn,
		model: model,
		query: NewSelector(table),
	}
}

func (qs *QuerySet) clone() *QuerySet {
	return &QuerySet{
		conn:  qs.conn,
		model: qs.model,
		query: qs.query.clone(),
		err:   qs.err,
	}
}

// mutate 在拷贝上执行修改
func (qs *QuerySet) mutate(fn func(s *Selector) error) *QuerySet {
	c := qs.clone()
	if c.err != nil {
		return c
	}
	c.err = fn(c.query)
	return c
}

// All 返回一个拷贝
func (qs *QuerySet) All() *QuerySet {
	return qs.clone()
}

// Filter 用 AND 追加查询条件
func (qs *QuerySet) Filter(preds ...Q) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.AddPredicate(false, preds, nil)
	})
}

// FilterBy 追加等值条件, FilterBy(F{"name": "Tom"}) => name = ?
func (qs *QuerySet) FilterBy(pairs F) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.AddPredicate(false, nil, pairs)
	})
}

// Exclude 把每个条件取反之后用 AND 追加
func (qs *QuerySet) Exclude(preds ...Q) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.AddPredicate(true, preds, nil)
	})
}

func (qs *QuerySet) ExcludeBy(pairs F) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.AddPredicate(true, nil, pairs)
	})
}

func (qs *QuerySet) OrderBy(fields ...string) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		s.SetOrderBy(fields...)
		return nil
	})
}

func (qs *QuerySet) GroupBy(fields ...string) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		s.SetGroupBy(fields...)
		return nil
	})
}

// ValuesList 指定查询的列
func (qs *QuerySet) ValuesList(fields ...string) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		s.SetFields(fields...)
		return nil
	})
}

func (qs *QuerySet) Limit(limit int) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.SetLimit(limit)
	})
}

func (qs *QuerySet) Distinct() *QuerySet {
	return qs.mutate(func(s *Selector) error {
		s.SetDistinct()
		return nil
	})
}

func (qs *QuerySet) Aggregate(aggs ...Aggregate) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		return s.SetAggregate(aggs...)
	})
}

// RawQuery 使用手写的 SQL, 其它查询条件都会被忽略
func (qs *QuerySet) RawQuery(sql string, args ...any) *QuerySet {
	return qs.mutate(func(s *Selector) error {
		s.SetRaw(sql, args...)
		return nil
	})
}

// Err 链式调用中出现的错误
func (qs *QuerySet) Err() error {
	return qs.err
}

// ToSQL 生成 SQL 和参数, 不会查询数据库
func (qs *QuerySet) ToSQL() (string, []any, error) {
	if qs.err != nil {
		return "", nil, qs.err
	}
	// 没有连接的时候同 newBuilder, 使用 ? 作为占位符
	ph := DialectSQLite.Placeholder()
	if qs.conn != nil {
		ph = qs.conn.Placeholder()
	}
	q, err := qs.query.Build(ph)
	if err != nil {
		return "", nil, err
	}
	return q.SQL, q.Args, nil
}

// fetchAll 第一次调用的时候查询数据库并缓存结果
func (qs *QuerySet) fetchAll(ctx context.Context) error {
	if qs.err != nil {
		return qs.err
	}
	if qs.cache != nil {
		return nil
	}
	res, err := qs.query.Execute(ctx, qs.conn, qs.model)
	if err != nil {
		return err
	}
	qs.cache = res
	return nil
}

// Models 返回缓存的查询结果
func (qs *QuerySet) Models(ctx context.Context) ([]*Model, error) {
	if err := qs.fetchAll(ctx); err != nil {
		return nil, err
	}
	return append([]*Model(nil), qs.cache...), nil
}

// Each 遍历查询结果, fn 返回 error 的时候中止遍历
func (qs *QuerySet) Each(ctx context.Context, fn func(idx int, m *Model) error) error {
	if err := qs.fetchAll(ctx); err != nil {
		return err
	}
	for i, m := range qs.cache {
		if err := fn(i, m); err != nil {
			return err
		}
	}
	return nil
}

func (qs *QuerySet) Len(ctx context.Context) (int, error) {
	if err := qs.fetchAll(ctx); err != nil {
		return 0, err
	}
	return len(qs.cache), nil
}

// Exists 是否查到了数据
func (qs *QuerySet) Exists(ctx context.Context) (bool, error) {
	n, err := qs.Len(ctx)
	return n > 0, err
}

// Index 返回第 idx 个结果的拷贝, 负数从后往前数
func (qs *QuerySet) Index(ctx context.Context, idx int) (*Model, error) {
	if err := qs.fetchAll(ctx); err != nil {
		return nil, err
	}
	size := len(qs.cache)
	i := idx
	if i < 0 {
		i += size
	}
	if i < 0 || i >= size {
		return nil, errs.NewErrIndexOutOfRange(idx, size)
	}
	return qs.cache[i].Clone(), nil
}

// Slice 返回 [start, stop) 范围内结果的拷贝, 负数从后往前数
// stop 传 End 代表一直到最后
func (qs *QuerySet) Slice(ctx context.Context, start, stop int) ([]*Model, error) {
	return qs.SliceStep(ctx, start, stop, 1)
}

// SliceStep 同 Slice, 每隔 step 个取一个, step 为 0 当作 1
func (qs *QuerySet) SliceStep(ctx context.Context, start, stop, step int) ([]*Model, error) {
	if step < 0 {
		return nil, errs.NewErrInvalidStep(step)
	}
	if step == 0 {
		step = 1
	}
	if err := qs.fetchAll(ctx); err != nil {
		return nil, err
	}
	size := len(qs.cache)
	start = normalize(start, size)
	stop = normalize(stop, size)
	res := make([]*Model, 0, size)
	for i := start; i < stop; i += step {
		res = append(res, qs.cache[i].Clone())
	}
	return res, nil
}

// normalize 负数下标从后往前数, 结果限制在 [0, size]
func normalize(idx, size int) int {
	if idx < 0 {
		idx += size
	}
	if idx < 0 {
		return 0
	}
	if idx > size {
		return size
	}
	return idx
}

// Get 返回唯一的一条记录
// 没有数据返回 ErrRecordNotFound, 多于一条返回 ErrMultipleRecords
func (qs *QuerySet) Get(ctx context.Context, preds ...Q) (*Model, error) {
	c := qs.All()
	if len(preds) > 0 {
		c = c.Filter(preds...)
	}
	return c.one(ctx)
}

// GetBy 同 Get, 使用等值条件
func (qs *QuerySet) GetBy(ctx context.Context, pairs F) (*Model, error) {
	c := qs.All()
	if len(pairs) > 0 {
		c = c.FilterBy(pairs)
	}
	return c.one(ctx)
}

func (qs *QuerySet) one(ctx context.Context) (*Model, error) {
	n, err := qs.Len(ctx)
	if err != nil {
		return nil, err
	}
	switch n {
	case 1:
		return qs.cache[0], nil
	case 0:
		return nil, errs.NewErrRecordNotFound(qs.query.table)
	default:
		return nil, errs.NewErrMultipleRecords(qs.query.table, n)
	}
}

// Count 查询记录数, 每次都会查数据库, 不使用也不填充缓存
func (qs *QuerySet) Count(ctx context.Context) (int64, error) {
	if qs.err != nil {
		return 0, qs.err
	}
	return qs.query.Count(ctx, qs.conn)
}
