package orm

import (
	"strings"
)

// builder 拼接 SQL 和参数
type builder struct {
	sb     strings.Builder
	args   []any
	quoter byte
	// placeholder 数据库的参数占位符
	placeholder string
}

func newBuilder(d Dialect, placeholder string) *builder {
	b := &builder{quoter: d.quoter(), placeholder: placeholder}
	if b.placeholder == "" {
		b.placeholder = d.Placeholder()
	}
	return b
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

// assign 拼接 `col` = ?, 并记录参数
func (b *builder) assign(col string, arg any) {
	b.quote(col)
	b.sb.WriteString(" = ")
	b.sb.WriteString(b.placeholder)
	b.addArgs(arg)
}

func (b *builder) addArgs(args ...any) {
	if len(args) == 0 {
		return
	}
	if b.args == nil {
		// 很少有查询能够超过8个参数
		// INSERT除外
		b.args = make([]any, 0, 8)
	}
	b.args = append(b.args, args...)
}

func (b *builder) build() *Query {
	return &Query{
		SQL:  b.sb.String(),
		Args: b.args,
	}
}
