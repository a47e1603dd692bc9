package orm

import (
	"reflect"
	"strings"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// Op WHERE 子句中的比较操作符
type Op string

const (
	OpEqual       Op = "="
	OpDoubleEqual Op = "=="
	OpNotEqual    Op = "!="
	OpLtGt        Op = "<>"
	OpGt          Op = ">"
	OpLt          Op = "<"
	OpGtEqual     Op = ">="
	OpLtEqual     Op = "<="
	OpNotLt       Op = "!<"
	OpNotGt       Op = "!>"
	OpLike        Op = "LIKE"
	OpGlob        Op = "GLOB"
	OpBetween     Op = "BETWEEN"
	OpIn          Op = "IN"
	OpNotIn       Op = "NOT IN"
	OpIs          Op = "IS"
	OpIsNot       Op = "IS NOT"
	OpIsNull      Op = "IS NULL"
)

func (o Op) String() string {
	return string(o)
}

// Connector 连接两个查询条件
type Connector string

const (
	ConnAnd Connector = "AND"
	ConnOr  Connector = "OR"
)

func (c Connector) String() string {
	return string(c)
}

// placeholderToken 渲染时使用的通用占位符
// 最后拼接 SQL 的时候才替换成具体数据库的占位符
const placeholderToken = "??"

type node struct {
	field  string
	op     Op
	value  any
	values []any
	// BETWEEN 的结束值
	second  any
	negated bool
	// conn 当前节点与前一个节点的连接方式, 第一个节点忽略
	conn Connector
}

// Q 代表查询条件, 可以通过 And, Or 组合成一串条件
// Q 是不可变的, 组合的时候总是拷贝节点, 不会修改原来的 Q
type Q struct {
	nodes []node
}

// NewQ 构造查询条件
// BETWEEN 必须再传一个结束值; IN 和 NOT IN 会把 value 和 extra 收集成一个列表
func NewQ(field string, op Op, value any, extra ...any) (Q, error) {
	if field == "" {
		return Q{}, errs.NewErrEmptyPredicateField()
	}
	n := node{
		field: field,
		op:    op,
		value: value,
		conn:  ConnAnd,
	}
	switch op {
	case OpBetween:
		if len(extra) != 1 {
			return Q{}, errs.NewErrBetweenValue(field)
		}
		n.second = extra[0]
	case OpIn, OpNotIn:
		if len(extra) == 0 {
			n.values = expand(value)
		} else {
			n.values = make([]any, 0, len(extra)+1)
			n.values = append(n.values, value)
			n.values = append(n.values, extra...)
		}
		if len(n.values) == 0 {
			return Q{}, errs.NewErrEmptyInValues(field)
		}
		n.value = nil
	}
	return Q{nodes: []node{n}}, nil
}

// MustQ 同 NewQ, 出错直接 panic
func MustQ(field string, op Op, value any, extra ...any) Q {
	q, err := NewQ(field, op, value, extra...)
	if err != nil {
		panic(err)
	}
	return q
}

// expand 把切片展开成列表, []byte 当作单个值
func expand(value any) []any {
	if _, ok := value.([]byte); ok {
		return []any{value}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	res := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		res = append(res, rv.Index(i).Interface())
	}
	return res
}

// Empty 没有任何条件
func (q Q) Empty() bool {
	return len(q.nodes) == 0
}

// validate IN 和 NOT IN 至少要有一个值
func (q Q) validate() error {
	for _, n := range q.nodes {
		if (n.op == OpIn || n.op == OpNotIn) && len(n.values) == 0 {
			return errs.NewErrEmptyInValues(n.field)
		}
	}
	return nil
}

// C("id").Eq(12).And(C("name").Eq("Tom")) => id = ?? AND name = ??
func (q Q) And(other Q) Q {
	return q.combine(other, ConnAnd)
}

// C("id").Eq(12).Or(C("name").Eq("Tom")) => id = ?? OR name = ??
func (q Q) Or(other Q) Q {
	return q.combine(other, ConnOr)
}

func (q Q) combine(other Q, conn Connector) Q {
	if q.Empty() {
		return other
	}
	if other.Empty() {
		return q
	}
	nodes := make([]node, 0, len(q.nodes)+len(other.nodes))
	nodes = append(nodes, q.nodes...)
	start := len(nodes)
	nodes = append(nodes, other.nodes...)
	nodes[start].conn = conn
	return Q{nodes: nodes}
}

// Negate 返回头节点取反后的条件, 原来的 q 不变
func (q Q) Negate() Q {
	if q.Empty() {
		return q
	}
	nodes := make([]node, len(q.nodes))
	copy(nodes, q.nodes)
	nodes[0].negated = !nodes[0].negated
	return Q{nodes: nodes}
}

// Not(C("age").Eq(18)) => NOT age = ??
func Not(q Q) Q {
	return q.Negate()
}

// String 渲染 WHERE 子句, 每个片段都以空格开头
func (q Q) String() string {
	var sb strings.Builder
	for i, n := range q.nodes {
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString(n.conn.String())
		}
		n.render(&sb)
	}
	return sb.String()
}

func (n node) render(sb *strings.Builder) {
	not := ""
	if n.negated {
		not = "NOT "
	}
	sb.WriteByte(' ')
	switch n.op {
	case OpIsNull:
		sb.WriteString(n.field)
		sb.WriteString(" IS ")
		sb.WriteString(not)
		sb.WriteString("NULL")
	case OpBetween:
		sb.WriteString(not)
		sb.WriteString(n.field)
		sb.WriteString(" BETWEEN ")
		sb.WriteString(placeholderToken)
		sb.WriteString(" AND ")
		sb.WriteString(placeholderToken)
	case OpIn, OpNotIn:
		sb.WriteString(not)
		sb.WriteString(n.field)
		sb.WriteByte(' ')
		sb.WriteString(n.op.String())
		sb.WriteString(" (")
		for i := range n.values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholderToken)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString(not)
		sb.WriteString(n.field)
		sb.WriteByte(' ')
		sb.WriteString(n.op.String())
		sb.WriteByte(' ')
		sb.WriteString(placeholderToken)
	}
}

// Args 按占位符的顺序返回参数
func (q Q) Args() []any {
	return q.collectArgs(nil)
}

func (q Q) collectArgs(args []any) []any {
	for _, n := range q.nodes {
		switch n.op {
		case OpIsNull:
			// 没有占位符
		case OpBetween:
			args = append(args, n.value, n.second)
		case OpIn, OpNotIn:
			args = append(args, n.values...)
		default:
			args = append(args, n.value)
		}
	}
	return args
}
