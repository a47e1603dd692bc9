package orm

import (
	"github.com/startdusk/saltyorm/orm/internal/errs"
)

// 通过桥接的方式将内部错误导出外部
// 当然这种方式也有取舍, 就是重构的时候, 如果调用这个变量的文件被移动到另外一个包了, 那么这里就得跟着移动
var (
	ErrNoConnection       = errs.ErrNoConnection
	ErrInvalidPredicate   = errs.ErrInvalidPredicate
	ErrInvalidArgument    = errs.ErrInvalidArgument
	ErrMissingField       = errs.ErrMissingField
	ErrModelConfiguration = errs.ErrModelConfiguration
	ErrAttributeMismatch  = errs.ErrAttributeMismatch
	ErrInvalidIdentifier  = errs.ErrInvalidIdentifier
	ErrRecordNotFound     = errs.ErrRecordNotFound
	ErrMultipleRecords    = errs.ErrMultipleRecords
	ErrIndexOutOfRange    = errs.ErrIndexOutOfRange

	ErrUnsupportedProvider = errs.ErrUnsupportedProvider

	ErrNotConnected        = errs.ErrNotConnected
	ErrInvalidStatement    = errs.ErrInvalidStatement
	ErrExecStatementFailed = errs.ErrExecStatementFailed
)
