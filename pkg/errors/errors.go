package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = stderrors.New("数据已被其他操作修改，请刷新后重试")

// Kind 业务错误分类
// 每个分类对应一类可预期的业务失败，Handler 层按 Kind 映射 HTTP 状态码
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"  // 租户范围内引用的实体不存在
	KindConflict   Kind = "CONFLICT"   // 教练/教室时间窗重叠
	KindCapacity   Kind = "CAPACITY"   // 超出课程容量或容量下调会孤立已有预约
	KindDuplicate  Kind = "DUPLICATE"  // 同一会员对同一课程已有活跃预约
	KindState      Kind = "STATE"      // 当前状态不允许该操作
	KindWindow     Kind = "WINDOW"     // 签到时间在允许窗口之外
	KindValidation Kind = "VALIDATION" // 请求参数非法
)

// Error 带分类的业务错误
// Entity/EntityID 标识出错的实体，便于调用方定位（错误响应必须携带）
type Error struct {
	Kind     Kind
	Entity   string
	EntityID string
	Message  string
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("[%s] %s(%s): %s", e.Kind, e.Entity, e.EntityID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Entity, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// E 构造业务错误
func E(kind Kind, entity, entityID, message string) *Error {
	return &Error{Kind: kind, Entity: entity, EntityID: entityID, Message: message}
}

// ── 各分类快捷构造 ──

// NotFound 实体不存在
func NotFound(entity, entityID string) *Error {
	return E(KindNotFound, entity, entityID, entity+"不存在")
}

// Conflict 时间窗冲突
func Conflict(entity, entityID, message string) *Error {
	return E(KindConflict, entity, entityID, message)
}

// Capacity 容量不足
func Capacity(entity, entityID, message string) *Error {
	return E(KindCapacity, entity, entityID, message)
}

// Duplicate 重复活跃预约
func Duplicate(entity, entityID, message string) *Error {
	return E(KindDuplicate, entity, entityID, message)
}

// State 状态不允许
func State(entity, entityID, message string) *Error {
	return E(KindState, entity, entityID, message)
}

// Window 超出时间窗口
func Window(entity, entityID, message string) *Error {
	return E(KindWindow, entity, entityID, message)
}

// Validation 参数校验失败
func Validation(field, message string) *Error {
	return E(KindValidation, field, "", message)
}

// KindOf 提取错误分类；非业务错误返回空串
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// AsError 提取业务错误；非业务错误返回 nil
func AsError(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}
