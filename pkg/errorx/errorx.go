package errorx

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// CodeError 携带业务错误码的错误
// 支持 %w 链式包装，可被 errors.Is / errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 面向调用方的错误消息
	cause error  // 底层错误
}

// Error 实现 error 接口
// 有底层错误时输出 "消息: 底层错误"
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 返回底层错误
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 按错误码比较，使预定义错误实例可直接用于 errors.Is
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Newf 创建带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
// 用法: errorx.Wrap(err, CodeDBError, "创建消息")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...), cause: err}
}

// GetCode 提取业务错误码，非 CodeError 统一视为服务繁忙
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码
const (
	CodeSuccess         = 1000 // 成功
	CodeInvalidParam    = 1001 // 请求参数错误
	CodeUserExist       = 1002 // 用户已存在
	CodeUserNotExist    = 1003 // 用户不存在
	CodeInvalidPassword = 1004 // 密码错误
	CodeServerBusy      = 1005 // 服务繁忙
	CodeUnauthorized    = 1006 // 未授权
	CodeForbidden       = 1007 // 无权操作
	CodeNotFound        = 1008 // 资源不存在
	CodeDBError         = 1010 // 数据库错误
	CodeCacheError      = 1011 // 缓存错误

	CodeNotFriends      = 1020 // 非好友关系
	CodeRequestNotFound = 1021 // 好友申请不存在
	CodeSelfRequest     = 1022 // 不能添加自己
	CodeAlreadyFriends  = 1023 // 已经是好友
	CodeDuplicateLogin  = 1024 // 同一来源重复登录
	CodeNotRoomMember   = 1025 // 不是房间成员
)

// 预定义错误实例，既可直接返回也可用于 errors.Is
var (
	ErrInvalidParam    = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy      = New(CodeServerBusy, "服务繁忙")
	ErrNotFriends      = New(CodeNotFriends, "你们已不是好友关系")
	ErrRequestNotFound = New(CodeRequestNotFound, "好友申请不存在或无权操作")
	ErrSelfRequest     = New(CodeSelfRequest, "不能添加自己为好友")
	ErrAlreadyFriends  = New(CodeAlreadyFriends, "你们已经是好友")
	ErrDuplicateLogin  = New(CodeDuplicateLogin, "您已在当前设备登录，请勿重复登录")
	ErrNotRoomMember   = New(CodeNotRoomMember, "你不是该房间成员")
)

// IsNotFound 判断是否为"未找到"类错误（含 gorm.ErrRecordNotFound）
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}
