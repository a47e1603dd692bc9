package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNoConnection       = errors.New("orm: 没有数据库连接")
	ErrInvalidPredicate   = errors.New("orm: 非法查询条件")
	ErrInvalidArgument    = errors.New("orm: 非法参数")
	ErrMissingField       = errors.New("orm: 缺少字段名")
	ErrModelConfiguration = errors.New("orm: 模型没有配置表名")
	ErrAttributeMismatch  = errors.New("orm: 表字段与模型字段不匹配")
	ErrInvalidIdentifier  = errors.New("orm: 非法主键")
	ErrRecordNotFound     = errors.New("orm: 没有数据")
	ErrMultipleRecords    = errors.New("orm: 返回了多条数据")
	ErrIndexOutOfRange    = errors.New("orm: 下标越界")

	ErrUnsupportedProvider = errors.New("orm: 不支持的数据库")

	// 连接层的错误, 由 Connection 的实现返回, 上层原样透传
	ErrNotConnected        = errors.New("orm: 未连接数据库")
	ErrInvalidStatement    = errors.New("orm: SQL语句为空")
	ErrExecStatementFailed = errors.New("orm: 执行SQL失败")
)

func NewErrBetweenValue(field string) error {
	return fmt.Errorf("%w: %s BETWEEN 需要且只需要一个结束值", ErrInvalidPredicate, field)
}

func NewErrEmptyPredicateField() error {
	return fmt.Errorf("%w: 字段名为空", ErrInvalidPredicate)
}

func NewErrEmptyInValues(field string) error {
	return fmt.Errorf("%w: %s IN 至少需要一个值", ErrInvalidPredicate, field)
}

func NewErrInvalidLimit(limit int) error {
	return fmt.Errorf("%w: LIMIT %d", ErrInvalidArgument, limit)
}

func NewErrInvalidStep(step int) error {
	return fmt.Errorf("%w: 切片步长 %d", ErrInvalidArgument, step)
}

func NewErrIndexOutOfRange(idx, size int) error {
	return fmt.Errorf("%w: 下标 %d, 长度 %d", ErrIndexOutOfRange, idx, size)
}

func NewErrAttributeMismatch(field string) error {
	return fmt.Errorf("%w: 表定义中存在 %s, 但模型中没有该值", ErrAttributeMismatch, field)
}

func NewErrRecordNotFound(table string) error {
	return fmt.Errorf("%w: %s", ErrRecordNotFound, table)
}

func NewErrMultipleRecords(table string, cnt int) error {
	return fmt.Errorf("%w: %s 返回了 %d 条数据", ErrMultipleRecords, table, cnt)
}

func NewErrUnsupportedProvider(provider string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
}

// NewErrExecStatementFailed 包装驱动返回的错误, 同时保留 ErrExecStatementFailed 和原始错误
func NewErrExecStatementFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrExecStatementFailed, err)
}
