package valuer

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	cases := []struct {
		name      string
		rows      func() *sqlmock.Rows
		textBytes bool
		wantErr   error
		wantRows  []map[string]any
	}{
		{
			name:      "测试全部字段, []byte 转成字符串",
			textBytes: true,
			rows: func() *sqlmock.Rows {
				rows := sqlmock.NewRows([]string{"id", "first_name", "age", "last_name"})
				rows.AddRow(int64(1), []byte("Tom"), int64(18), nil)
				rows.AddRow(int64(2), []byte("Jerry"), int64(20), "Cat")
				return rows
			},
			wantRows: []map[string]any{
				{"id": int64(1), "first_name": "Tom", "age": int64(18), "last_name": nil},
				{"id": int64(2), "first_name": "Jerry", "age": int64(20), "last_name": "Cat"},
			},
		},
		{
			name: "测试二进制数据保留 []byte",
			rows: func() *sqlmock.Rows {
				rows := sqlmock.NewRows([]string{"id", "avatar"})
				rows.AddRow(int64(1), []byte{0xff, 0x00, 0xfe})
				return rows
			},
			wantRows: []map[string]any{
				{"id": int64(1), "avatar": []byte{0xff, 0x00, 0xfe}},
			},
		},
		{
			name: "测试没有数据",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id"})
			},
			wantRows: []map[string]any{},
		},
		{
			name: "测试读取中途出错",
			rows: func() *sqlmock.Rows {
				rows := sqlmock.NewRows([]string{"id"})
				rows.AddRow(int64(1))
				rows.RowError(0, errors.New("mock error"))
				return rows
			},
			wantErr: errors.New("mock error"),
		},
	}

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mock.ExpectQuery("SELECT xxx").WillReturnRows(c.rows())
			rows, err := mockDB.Query("SELECT xxx")
			require.NoError(t, err)
			defer rows.Close()

			res, err := Scan(rows, c.textBytes)
			assert.Equal(t, c.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, c.wantRows, res)
		})
	}
}
