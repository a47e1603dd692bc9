package orm

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	now := time.Date(2022, 1, 2, 15, 4, 5, 0, time.UTC)
	cases := []struct {
		name      string
		val       any
		wantKind  Kind
		wantIface any
		wantStr   string
		wantEmpty bool
	}{
		{
			name:      "nil",
			val:       nil,
			wantKind:  KindNull,
			wantEmpty: true,
		},
		{
			name:      "string",
			val:       "Tom",
			wantKind:  KindString,
			wantIface: "Tom",
			wantStr:   "Tom",
		},
		{
			name:      "empty string",
			val:       "",
			wantKind:  KindString,
			wantIface: "",
			wantEmpty: true,
		},
		{
			name:      "int",
			val:       int8(12),
			wantKind:  KindInt,
			wantIface: int64(12),
			wantStr:   "12",
		},
		{
			name:      "float",
			val:       1.5,
			wantKind:  KindFloat,
			wantIface: 1.5,
			wantStr:   "1.5",
		},
		{
			name:      "bool",
			val:       true,
			wantKind:  KindBool,
			wantIface: true,
			wantStr:   "true",
		},
		{
			name:      "time",
			val:       now,
			wantKind:  KindTime,
			wantIface: now,
			wantStr:   "2022-01-02T15:04:05Z",
		},
		{
			name:      "bytes",
			val:       []byte("abc"),
			wantKind:  KindBytes,
			wantIface: []byte("abc"),
			wantStr:   "abc",
		},
		{
			name:      "list",
			val:       []string{"a", "b"},
			wantKind:  KindList,
			wantIface: []any{"a", "b"},
			wantStr:   "a,b",
		},
		{
			name:      "null string",
			val:       sql.NullString{},
			wantKind:  KindNull,
			wantEmpty: true,
		},
		{
			name:      "valid null string",
			val:       sql.NullString{String: "Tom", Valid: true},
			wantKind:  KindString,
			wantIface: "Tom",
			wantStr:   "Tom",
		},
		{
			name:      "pointer",
			val:       func() *int { i := 3; return &i }(),
			wantKind:  KindInt,
			wantIface: int64(3),
			wantStr:   "3",
		},
		{
			name:      "nil pointer",
			val:       (*int)(nil),
			wantKind:  KindNull,
			wantEmpty: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ValueOf(tc.val)
			assert.Equal(t, tc.wantKind, v.Kind())
			assert.Equal(t, tc.wantIface, v.Interface())
			assert.Equal(t, tc.wantStr, v.String())
			assert.Equal(t, tc.wantEmpty, v.IsEmpty())
		})
	}
}

func TestValue_Int64(t *testing.T) {
	cases := []struct {
		name    string
		val     any
		want    int64
		wantErr bool
	}{
		{name: "int", val: 12, want: 12},
		{name: "string", val: "12", want: 12},
		{name: "bytes", val: []byte("12"), want: 12},
		{name: "null", val: nil, want: 0},
		{name: "not number", val: "abc", wantErr: true},
		{name: "time", val: time.Now(), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := ValueOf(tc.val).Int64()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestValue_Bind(t *testing.T) {
	assert.Equal(t, "1,2,3", ValueOf([]int{1, 2, 3}).bind())
	assert.Equal(t, "Tom", ValueOf("Tom").bind())
	assert.Nil(t, Null.bind())
}

func TestIsTimeField(t *testing.T) {
	cases := []struct {
		field string
		want  bool
	}{
		{field: "created", want: true},
		{field: "modified", want: true},
		{field: "birth_dt", want: true},
		{field: "last_login", want: true},
		{field: "valid_from", want: true},
		{field: "valid_to", want: true},
		{field: "shift_start", want: true},
		{field: "name", want: false},
		{field: "total", want: false},
		{field: "id", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			assert.Equal(t, tc.want, isTimeField(tc.field))
		})
	}
}

func TestParseTime(t *testing.T) {
	v := parseTime(ValueOf("2022-01-02"))
	tm, ok := v.Time()
	require.True(t, ok)
	assert.Equal(t, 2022, tm.Year())
	assert.Equal(t, time.January, tm.Month())
	assert.Equal(t, 2, tm.Day())

	// 解析失败保留原值
	v = parseTime(ValueOf("tomorrow"))
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "tomorrow", v.String())

	// 不是字符串的值不处理
	v = parseTime(ValueOf(12))
	assert.Equal(t, KindInt, v.Kind())
}

func TestValue_MarshalJSON(t *testing.T) {
	bs, err := ValueOf([]byte("abc")).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(bs))

	bs, err = ValueOf([]byte{0xff, 0x00}).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"/wA="`, string(bs))

	bs, err = Null.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `null`, string(bs))
}
