package orm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Kind Value 中保存的值的类型
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindBytes
	KindList
)

// listDelimiter 列表类型的值写入数据库前会被拼接成字符串
const listDelimiter = ","

// Value 模型字段的值, 带类型标记
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	b    bool
	t    time.Time
	bs   []byte
	list []Value
}

// Null 空值
var Null = Value{}

// ValueOf 把任意值转成 Value
// 不认识的类型按照 fmt.Sprint 的结果当作字符串
func ValueOf(val any) Value {
	switch v := val.(type) {
	case nil:
		return Null
	case Value:
		return v
	case string:
		return Value{kind: KindString, str: v}
	case []byte:
		return Value{kind: KindBytes, bs: append([]byte(nil), v...)}
	case bool:
		return Value{kind: KindBool, b: v}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Value{kind: KindInt, num: cast.ToInt64(v)}
	case float32:
		return Value{kind: KindFloat, flt: float64(v)}
	case float64:
		return Value{kind: KindFloat, flt: v}
	case time.Time:
		return Value{kind: KindTime, t: v}
	case *time.Time:
		if v == nil {
			return Null
		}
		return Value{kind: KindTime, t: *v}
	case driver.Valuer:
		// sql.NullString 之类的类型
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return Null
		}
		dv, err := v.Value()
		if err != nil {
			return Value{kind: KindString, str: fmt.Sprint(v)}
		}
		return ValueOf(dv)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Null
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		list := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list = append(list, ValueOf(rv.Index(i).Interface()))
		}
		return Value{kind: KindList, list: list}
	}
	return Value{kind: KindString, str: fmt.Sprint(val)}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsEmpty 空值, 空字符串, 空列表都算空
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindBytes:
		return len(v.bs) == 0
	case KindList:
		return len(v.list) == 0
	}
	return false
}

// Interface 返回原生的 Go 值
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindBytes:
		return v.bs
	case KindList:
		res := make([]any, 0, len(v.list))
		for _, item := range v.list {
			res = append(res, item.Interface())
		}
		return res
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindBytes:
		return string(v.bs)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindList:
		strs := make([]string, 0, len(v.list))
		for _, item := range v.list {
			strs = append(strs, item.String())
		}
		return strings.Join(strs, listDelimiter)
	}
	return cast.ToString(v.Interface())
}

func (v Value) Int64() (int64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindBytes:
		return cast.ToInt64E(string(v.bs))
	case KindTime, KindList:
		return 0, fmt.Errorf("orm: 无法把 %s 转成整数", v.String())
	}
	return cast.ToInt64E(v.Interface())
}

func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

func (v Value) List() []Value {
	if v.kind != KindList {
		return nil
	}
	return append([]Value(nil), v.list...)
}

// bind 写入数据库用的参数, 列表被拼接成字符串
func (v Value) bind() any {
	if v.kind == KindList {
		return v.String()
	}
	return v.Interface()
}

func (v Value) MarshalJSON() ([]byte, error) {
	// 合法的 UTF-8 按字符串输出, 二进制数据按 base64 输出
	if v.kind == KindBytes {
		if utf8.Valid(v.bs) {
			return json.Marshal(string(v.bs))
		}
		return json.Marshal(v.bs)
	}
	return json.Marshal(v.Interface())
}

// isTimeField 根据字段名猜测是否是时间字段
// created, modified, xxx_dt, last_xxx, xxx_start, xxx_from, xxx_to
func isTimeField(name string) bool {
	switch {
	case name == fieldCreated, name == fieldModified:
		return true
	case strings.HasSuffix(name, "_dt"), strings.HasPrefix(name, "last_"):
		return true
	case strings.HasSuffix(name, "_start"), strings.HasSuffix(name, "_from"), strings.HasSuffix(name, "_to"):
		return true
	}
	return false
}

// parseTime 尝试把字符串解析成时间, 解析失败保留原值
func parseTime(v Value) Value {
	var s string
	switch v.kind {
	case KindString:
		s = v.str
	case KindBytes:
		s = string(v.bs)
	default:
		return v
	}
	t, err := cast.ToTimeE(s)
	if err != nil {
		return v
	}
	return Value{kind: KindTime, t: t}
}
