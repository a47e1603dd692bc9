package orm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

const (
	fieldID       = "id"
	fieldCreated  = "created"
	fieldModified = "modified"
)

// reserved 这些字段由 ORM 维护, 不会按普通字段写入
func reserved(field string) bool {
	return field == fieldID || field == fieldCreated || field == fieldModified
}

type ModelOption func(m *Model)

// WithValues 新记录的字段值
func WithValues(vals F) ModelOption {
	return func(m *Model) {
		m.pending = vals
	}
}

// WithTimeFields 显式声明时间字段, 赋值的时候会尝试解析成时间
// 字段名规则之外的时间字段需要用它声明
func WithTimeFields(fields ...string) ModelOption {
	return func(m *Model) {
		for _, f := range fields {
			m.timeFields[f] = struct{}{}
		}
	}
}

// WithColumnCache 使用共享的表字段缓存
func WithColumnCache(c *ColumnCache) ModelOption {
	return func(m *Model) {
		m.cache = c
	}
}

// Model 代表表中的一行数据
// id 为空或者为0的 Model 是新记录
type Model struct {
	conn  Connection
	table string

	// fields 表字段, 保持表定义中的顺序, 赋值时出现的新字段追加在后面
	fields []string
	values map[string]Value

	timeFields map[string]struct{}
	cache      *ColumnCache
	pending    F
}

// NewModel 创建 Model, 会查询一次表结构来确定字段
// conn 是测试替身的时候不查表结构
func NewModel(ctx context.Context, conn Connection, table string, opts ...ModelOption) (*Model, error) {
	m := &Model{
		conn:       conn,
		table:      table,
		values:     make(map[string]Value, 8),
		timeFields: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if conn != nil && !conn.Testing() {
		cols, err := discoverColumns(ctx, conn, table, m.cache)
		if err != nil {
			return nil, err
		}
		m.fields = cols
	}

	for _, key := range sortedKeys(m.pending) {
		m.Set(key, m.pending[key])
	}
	m.pending = nil
	return m, nil
}

// Table 表名
func (m *Model) Table() string {
	return m.table
}

func (m *Model) Conn() Connection {
	return m.conn
}

// Fields 字段名列表
func (m *Model) Fields() []string {
	return cloneStrings(m.fields)
}

func (m *Model) hasField(name string) bool {
	for _, f := range m.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Set 设置字段的值, 时间字段会尝试解析成 time.Time, 解析失败保留原值
func (m *Model) Set(name string, val any) *Model {
	if !m.hasField(name) {
		m.fields = append(m.fields, name)
	}
	v := ValueOf(val)
	if m.isTimeField(name) {
		v = parseTime(v)
	}
	m.values[name] = v
	return m
}

func (m *Model) isTimeField(name string) bool {
	if _, ok := m.timeFields[name]; ok {
		return true
	}
	return isTimeField(name)
}

// stamp 只改值, 不把字段加入字段列表
func (m *Model) stamp(name string, val any) {
	m.values[name] = ValueOf(val)
}

func (m *Model) Get(name string) (Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

// ID 主键, 没有或者不是整数的时候返回 0
func (m *Model) ID() int64 {
	id, err := m.values[fieldID].Int64()
	if err != nil {
		return 0
	}
	return id
}

func (m *Model) Created() (time.Time, bool) {
	return m.values[fieldCreated].Time()
}

func (m *Model) Modified() (time.Time, bool) {
	return m.values[fieldModified].Time()
}

// Objects 返回绑定到这个 Model 的 QuerySet
func (m *Model) Objects() *QuerySet {
	return NewQuerySet(m.conn, m)
}

// Clone 拷贝一份, 修改拷贝不会影响原来的 Model
func (m *Model) Clone() *Model {
	c := m.empty()
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

func (m *Model) empty() *Model {
	return &Model{
		conn:       m.conn,
		table:      m.table,
		fields:     cloneStrings(m.fields),
		values:     make(map[string]Value, len(m.fields)),
		timeFields: m.timeFields,
		cache:      m.cache,
	}
}

// hydrate 用查询结果的一行构造 Model, 沿用原型查到的表字段
func (m *Model) hydrate(row Row) *Model {
	h := m.empty()
	for _, f := range m.fields {
		if v, ok := row[f]; ok {
			h.Set(f, v)
		}
	}
	for _, key := range sortedKeys(row) {
		if _, ok := h.values[key]; !ok {
			h.Set(key, row[key])
		}
	}
	return h
}

// Save 保存到数据库, 没有 id 插入, 否则更新, 然后按 id 重新查出来
// cleaned 为 true 的时候跳过空值
func (m *Model) Save(ctx context.Context, cleaned bool) (*Model, error) {
	if m.conn == nil {
		return nil, errs.ErrNoConnection
	}
	var err error
	if m.ID() == 0 {
		err = m.insert(ctx, cleaned)
	} else {
		_, err = m.update(ctx, cleaned)
	}
	if err != nil {
		return nil, err
	}
	return m.Objects().Get(ctx, C(fieldID).Eq(m.ID()))
}

// Delete 按 id 删除, 返回数据库给的结果(最后的ID或者1)
func (m *Model) Delete(ctx context.Context) (int64, error) {
	if m.conn == nil {
		return 0, errs.ErrNoConnection
	}
	id := m.ID()
	if id == 0 {
		return 0, errs.ErrInvalidIdentifier
	}
	b, err := m.builder()
	if err != nil {
		return 0, err
	}
	b.sb.WriteString("DELETE FROM ")
	b.sb.WriteString(m.table)
	b.sb.WriteString(" WHERE ")
	b.assign(fieldID, id)
	q := b.build()
	return m.conn.ExecCommit(ctx, q.SQL, q.Args)
}

func (m *Model) builder() (*builder, error) {
	if m.table == "" {
		return nil, errs.ErrModelConfiguration
	}
	d, err := DialectOf(m.conn.Provider())
	if err != nil {
		return nil, err
	}
	return newBuilder(d, m.conn.Placeholder()), nil
}

// columnValues 需要写入的普通字段和值, 跳过 id, created, modified
func (m *Model) columnValues(cleaned bool) ([]string, []any, error) {
	cols := make([]string, 0, len(m.fields))
	args := make([]any, 0, len(m.fields))
	for _, f := range m.fields {
		if reserved(f) {
			continue
		}
		v, ok := m.values[f]
		if cleaned && (!ok || v.IsEmpty()) {
			continue
		}
		if !ok {
			return nil, nil, errs.NewErrAttributeMismatch(f)
		}
		cols = append(cols, f)
		args = append(args, v.bind())
	}
	return cols, args, nil
}

func (m *Model) insert(ctx context.Context, cleaned bool) error {
	b, err := m.builder()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	m.stamp(fieldCreated, now)
	m.stamp(fieldModified, now)

	cols := make([]string, 0, len(m.fields))
	args := make([]any, 0, len(m.fields))
	for _, f := range []string{fieldCreated, fieldModified} {
		if m.hasField(f) {
			cols = append(cols, f)
			args = append(args, now)
		}
	}
	others, otherArgs, err := m.columnValues(cleaned)
	if err != nil {
		return err
	}
	cols = append(cols, others...)
	args = append(args, otherArgs...)
	if len(cols) == 0 {
		return fmt.Errorf("%w: %s 没有需要插入的字段", errs.ErrInvalidArgument, m.table)
	}

	b.sb.WriteString("INSERT INTO ")
	b.sb.WriteString(m.table)
	b.sb.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.quote(col)
	}
	b.sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(b.placeholder)
	}
	b.sb.WriteByte(')')
	b.addArgs(args...)

	q := b.build()
	id, err := m.conn.ExecCommit(ctx, q.SQL, q.Args)
	if err != nil {
		return err
	}
	m.stamp(fieldID, id)
	return nil
}

func (m *Model) update(ctx context.Context, cleaned bool) (int64, error) {
	b, err := m.builder()
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	m.stamp(fieldModified, now)

	cols, args, err := m.columnValues(cleaned)
	if err != nil {
		return 0, err
	}
	if m.hasField(fieldModified) {
		cols = append([]string{fieldModified}, cols...)
		args = append([]any{now}, args...)
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("%w: %s 没有需要更新的字段", errs.ErrInvalidArgument, m.table)
	}

	b.sb.WriteString("UPDATE ")
	b.sb.WriteString(m.table)
	b.sb.WriteString(" SET ")
	for i, col := range cols {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.assign(col, args[i])
	}
	b.sb.WriteString(" WHERE ")
	b.assign(fieldID, m.ID())

	q := b.build()
	return m.conn.ExecCommit(ctx, q.SQL, q.Args)
}

// ToMap 字段名 => 原生值
// cleaned 为 true 的时候跳过空值
func (m *Model) ToMap(cleaned bool) map[string]any {
	res := make(map[string]any, len(m.fields))
	for _, f := range m.fields {
		v := m.values[f]
		if cleaned && v.IsNull() {
			continue
		}
		res[f] = v.Interface()
	}
	return res
}

// JSON 按字段顺序输出 JSON
func (m *Model) JSON(cleaned bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for _, f := range m.fields {
		v := m.values[f]
		if cleaned && v.IsNull() {
			continue
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Model) MarshalJSON() ([]byte, error) {
	return m.JSON(false)
}

func (m *Model) String() string {
	var sb strings.Builder
	sb.WriteString(m.table)
	sb.WriteByte('(')
	i := 0
	for _, f := range m.fields {
		v, ok := m.values[f]
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f)
		sb.WriteByte('=')
		sb.WriteString(v.String())
		i++
	}
	sb.WriteByte(')')
	return sb.String()
}
