package orm

// Column 代表列名, 用来构造查询条件
// Column 的方法不返回 error, 空的 IN 在 Selector.AddPredicate 的时候校验
type Column struct {
	name string
}

func C(name string) Column {
	return Column{name: name}
}

func (c Column) pred(op Op, arg any) Q {
	return Q{nodes: []node{{
		field: c.name,
		op:    op,
		value: arg,
		conn:  ConnAnd,
	}}}
}

func (c Column) Eq(arg any) Q {
	return c.pred(OpEqual, arg)
}

func (c Column) NotEq(arg any) Q {
	return c.pred(OpNotEqual, arg)
}

func (c Column) Gt(arg any) Q {
	return c.pred(OpGt, arg)
}

func (c Column) Lt(arg any) Q {
	return c.pred(OpLt, arg)
}

func (c Column) GtEq(arg any) Q {
	return c.pred(OpGtEqual, arg)
}

func (c Column) LtEq(arg any) Q {
	return c.pred(OpLtEqual, arg)
}

func (c Column) Like(pattern string) Q {
	return c.pred(OpLike, pattern)
}

func (c Column) Glob(pattern string) Q {
	return c.pred(OpGlob, pattern)
}

func (c Column) Is(arg any) Q {
	return c.pred(OpIs, arg)
}

func (c Column) IsNot(arg any) Q {
	return c.pred(OpIsNot, arg)
}

func (c Column) IsNull() Q {
	return c.pred(OpIsNull, nil)
}

// C("age").Between(18, 30) => age BETWEEN ?? AND ??
func (c Column) Between(from, to any) Q {
	q := c.pred(OpBetween, from)
	q.nodes[0].second = to
	return q
}

// C("name").In("Jane", "John") => name IN (??, ??)
// 只传一个切片的时候会展开, C("id").In([]int{1, 2}) => id IN (??, ??)
// 没有传值的条件在 Selector.AddPredicate 的时候报错
func (c Column) In(vals ...any) Q {
	return c.in(OpIn, vals)
}

func (c Column) NotIn(vals ...any) Q {
	return c.in(OpNotIn, vals)
}

// in 拷贝一份 vals, 调用方之后修改切片不会影响 Q
func (c Column) in(op Op, vals []any) Q {
	q := c.pred(op, nil)
	if len(vals) == 1 {
		q.nodes[0].values = expand(vals[0])
	} else {
		q.nodes[0].values = append([]any(nil), vals...)
	}
	return q
}
