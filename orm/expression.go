package orm

// RawExpr 代表的是原生 SQL
// 是一种兜底方式, 由于用户的输入SQL过于复杂, 就交给用户自己手写SQL, 我们就不能帮忙构建了
// 设置了 RawExpr 的 Selector 不再拼接其它部分
type RawExpr struct {
	raw  string
	args []any
}

func Raw(expr string, args ...any) RawExpr {
	return RawExpr{
		raw:  expr,
		args: args,
	}
}

func (r RawExpr) Build() (*Query, error) {
	return &Query{
		SQL:  r.raw,
		Args: r.args,
	}, nil
}
