package orm

import (
	"context"
	"strconv"
	"strings"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// Selector 保存 SELECT 语句的各个部分, 负责生成 SQL 并执行
// Selector 通过 clone 复制, QuerySet 每次链式调用都会得到一个新的 Selector
type Selector struct {
	table string

	// 指定 select 的列
	fields     []string
	aggregates []Aggregate
	where      Q
	groupBy    []string
	orderBy    []string
	limit      int
	hasLimit   bool
	distinct   bool

	// 用户手写的 SQL, 设置之后忽略其它部分
	raw *RawExpr
}

func NewSelector(table string) *Selector {
	return &Selector{table: table}
}

func (s *Selector) clone() *Selector {
	c := *s
	c.fields = cloneStrings(s.fields)
	c.groupBy = cloneStrings(s.groupBy)
	c.orderBy = cloneStrings(s.orderBy)
	if s.aggregates != nil {
		c.aggregates = append([]Aggregate(nil), s.aggregates...)
	}
	if s.raw != nil {
		raw := *s.raw
		raw.args = append([]any(nil), s.raw.args...)
		c.raw = &raw
	}
	// Q 不可变, 直接共享
	return &c
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func (s *Selector) SetFields(fields ...string) {
	s.fields = cloneStrings(fields)
}

func (s *Selector) SetGroupBy(fields ...string) {
	s.groupBy = cloneStrings(fields)
}

func (s *Selector) SetOrderBy(fields ...string) {
	s.orderBy = cloneStrings(fields)
}

func (s *Selector) SetLimit(limit int) error {
	if limit < 0 {
		return errs.NewErrInvalidLimit(limit)
	}
	s.limit = limit
	s.hasLimit = true
	return nil
}

func (s *Selector) SetDistinct() {
	s.distinct = true
}

func (s *Selector) SetAggregate(aggs ...Aggregate) error {
	for _, a := range aggs {
		if err := a.validate(); err != nil {
			return err
		}
	}
	s.aggregates = append([]Aggregate(nil), aggs...)
	return nil
}

func (s *Selector) SetRaw(sql string, args ...any) {
	raw := Raw(sql, args...)
	s.raw = &raw
}

// AddPredicate 把查询条件用 AND 追加到 WHERE 子句
// pairs 里的键值对会变成等值条件, 按照键排序保证生成的 SQL 稳定
// negate 为 true 的时候每个条件都会取反, 即 exclude
func (s *Selector) AddPredicate(negate bool, qs []Q, pairs F) error {
	if len(qs) == 0 && len(pairs) == 0 {
		return errs.ErrInvalidArgument
	}
	all := make([]Q, 0, len(qs)+len(pairs))
	for _, q := range qs {
		if err := q.validate(); err != nil {
			return err
		}
		all = append(all, q)
	}
	for _, key := range sortedKeys(pairs) {
		all = append(all, C(key).Eq(pairs[key]))
	}
	where := s.where
	for _, q := range all {
		if negate {
			q = q.Negate()
		}
		where = where.And(q)
	}
	s.where = where
	return nil
}

// Build 生成 SQL, 通用占位符会被替换成 placeholder
func (s *Selector) Build(placeholder string) (*Query, error) {
	if s.raw != nil {
		return s.raw.Build()
	}
	if s.table == "" {
		return nil, errs.ErrModelConfiguration
	}

	var sb strings.Builder
	sb.WriteString("SELECT")
	if s.distinct {
		sb.WriteString(" DISTINCT")
	}
	sb.WriteByte(' ')
	s.buildFields(&sb)
	sb.WriteString(" FROM ")
	sb.WriteString(s.table)

	var args []any
	if !s.where.Empty() {
		sb.WriteString(" WHERE")
		sb.WriteString(s.where.String())
		args = s.where.Args()
	}
	if len(s.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(s.groupBy, ", "))
	}
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.hasLimit {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(s.limit))
	}

	sql := sb.String()
	if placeholder != "" {
		sql = strings.ReplaceAll(sql, placeholderToken, placeholder)
	}
	return &Query{
		SQL:  sql,
		Args: args,
	}, nil
}

// buildFields 构建 SELECT 的列
func (s *Selector) buildFields(sb *strings.Builder) {
	if len(s.fields) == 0 && len(s.aggregates) == 0 {
		// 没有指定列
		sb.WriteByte('*')
		return
	}
	if len(s.fields) > 0 {
		sb.WriteString(strings.Join(s.fields, ", "))
	} else {
		sb.WriteByte('*')
	}
	spaced := len(s.groupBy) > 0
	for _, a := range s.aggregates {
		sb.WriteString(", ")
		sb.WriteString(a.render(spaced))
	}
}

// Execute 执行查询, 每一行数据都按照 proto 构造成一个 Model
func (s *Selector) Execute(ctx context.Context, conn Connection, proto *Model) ([]*Model, error) {
	if conn == nil || !conn.Connected() {
		return nil, errs.ErrNoConnection
	}
	if proto == nil {
		return nil, errs.ErrModelConfiguration
	}
	q, err := s.Build(conn.Placeholder())
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}
	res := make([]*Model, 0, len(rows))
	for _, row := range rows {
		res = append(res, proto.hydrate(row))
	}
	return res, nil
}

// Count 返回记录数
// 有过滤条件的时候把查询作为子查询, 否则直接数整张表
func (s *Selector) Count(ctx context.Context, conn Connection) (int64, error) {
	if conn == nil || !conn.Connected() {
		return 0, errs.ErrNoConnection
	}
	q, err := s.countQuery(conn.Placeholder())
	if err != nil {
		return 0, err
	}
	rows, err := conn.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return ValueOf(rows[0]["count"]).Int64()
}

func (s *Selector) countQuery(placeholder string) (*Query, error) {
	const prefix = "SELECT COUNT(1) AS count FROM "
	if s.raw != nil {
		return &Query{
			SQL:  prefix + "(" + s.raw.raw + ") AS raw_query",
			Args: s.raw.args,
		}, nil
	}
	if s.table == "" {
		return nil, errs.ErrModelConfiguration
	}
	if !s.filtered() {
		return &Query{SQL: prefix + s.table}, nil
	}
	q, err := s.Build(placeholder)
	if err != nil {
		return nil, err
	}
	q.SQL = prefix + "(" + q.SQL + ") AS sub_query"
	return q, nil
}

// filtered 是否有会影响行数的部分
func (s *Selector) filtered() bool {
	return !s.where.Empty() || s.distinct || s.hasLimit || len(s.groupBy) > 0 || len(s.aggregates) > 0
}
