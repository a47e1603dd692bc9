package valuer

import (
	"database/sql"
)

// Scan 把查询结果读成 列名 => 值 的列表
// 利用 rows.Columns() 拿到列名, 不依赖 SELECT 的列顺序
// textBytes 为 true 的时候 []byte 转成字符串, 否则保留为 []byte
func Scan(rows *sql.Rows, textBytes bool) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := make([]map[string]any, 0, 8)
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalize(vals[i], textBytes)
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// normalize MySQL 驱动的文本协议返回的都是 []byte, 需要转成字符串
// 扫描到 any 里的 []byte 在下一次 Next 之后会失效, 所以总是拷贝一份
func normalize(val any, textBytes bool) any {
	bs, ok := val.([]byte)
	if !ok {
		return val
	}
	if textBytes {
		return string(bs)
	}
	return append([]byte(nil), bs...)
}
