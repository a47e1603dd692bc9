package orm

import (
	"strings"

	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// Aggregate 代表了聚合函数
// MAX(id), MIN(id), COUNT(id), SUM(id)
type Aggregate struct {
	fn    string
	arg   string
	alias string
}

// NewAggregate 构造聚合函数, 列名不能为空
func NewAggregate(fn, col, alias string) (Aggregate, error) {
	a := Aggregate{fn: strings.ToUpper(fn), arg: col, alias: alias}
	if err := a.validate(); err != nil {
		return Aggregate{}, err
	}
	return a, nil
}

func Max(col string) Aggregate {
	return Aggregate{fn: "MAX", arg: col}
}

func Min(col string) Aggregate {
	return Aggregate{fn: "MIN", arg: col}
}

func Count(col string) Aggregate {
	return Aggregate{fn: "COUNT", arg: col}
}

func Sum(col string) Aggregate {
	return Aggregate{fn: "SUM", arg: col}
}

// As 指定别名
func (a Aggregate) As(alias string) Aggregate {
	a.alias = alias
	return a
}

// Alias 默认别名是 <列名>__<小写函数名>, 如 id__max
func (a Aggregate) Alias() string {
	if a.alias != "" {
		return a.alias
	}
	return a.arg + "__" + strings.ToLower(a.fn)
}

func (a Aggregate) validate() error {
	if strings.TrimSpace(a.arg) == "" {
		return errs.ErrMissingField
	}
	return nil
}

// render 有 GROUP BY 的时候函数名和括号之间带空格: MAX (id) as id__max
// 没有 GROUP BY 的时候不带: MAX(id) as id__max
func (a Aggregate) render(spaced bool) string {
	var sb strings.Builder
	sb.WriteString(a.fn)
	if spaced {
		sb.WriteByte(' ')
	}
	sb.WriteByte('(')
	sb.WriteString(a.arg)
	sb.WriteString(") as ")
	sb.WriteString(a.Alias())
	return sb.String()
}

func (a Aggregate) String() string {
	return a.render(true)
}
