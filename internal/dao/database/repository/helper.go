package repository

import (
	"errors"

	"presence_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError 按 gorm 错误类型选择业务码，消息支持格式化
// 记录不存在为 CodeNotFound，其余为 CodeDBError
func wrapDBError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := errorx.CodeDBError
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code = errorx.CodeNotFound
	}
	return errorx.Wrapf(err, code, format, args...)
}
