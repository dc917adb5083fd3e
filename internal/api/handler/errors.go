package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "gymtrack/backend/pkg/errors"
	"gymtrack/backend/pkg/response"
)

// 业务错误分类在模块码段内的固定偏移
const (
	codeOffsetNotFound  = 101
	codeOffsetConflict  = 102
	codeOffsetCapacity  = 103
	codeOffsetDuplicate = 104
	codeOffsetState     = 105
	codeOffsetWindow    = 106
)

// handleBusinessError 按错误分类映射 HTTP 状态码与模块业务码
// base 为模块码段起点（如课程 13000），分类偏移在段内保持一致
func handleBusinessError(c *gin.Context, err error, base int) {
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		response.Conflict(c, base+codeOffsetConflict, err.Error())
		return
	}

	e := pkgerrors.AsError(err)
	if e == nil {
		response.InternalError(c)
		return
	}

	switch e.Kind {
	case pkgerrors.KindValidation:
		response.BadRequest(c, base+1, e.Message)
	case pkgerrors.KindNotFound:
		response.NotFound(c, base+codeOffsetNotFound, e.Message)
	case pkgerrors.KindConflict:
		response.Conflict(c, base+codeOffsetConflict, e.Message)
	case pkgerrors.KindCapacity:
		response.Conflict(c, base+codeOffsetCapacity, e.Message)
	case pkgerrors.KindDuplicate:
		response.Conflict(c, base+codeOffsetDuplicate, e.Message)
	case pkgerrors.KindState:
		response.Conflict(c, base+codeOffsetState, e.Message)
	case pkgerrors.KindWindow:
		response.Error(c, http.StatusUnprocessableEntity, base+codeOffsetWindow, e.Message)
	default:
		response.InternalError(c)
	}
}
