package handler

import (
	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 签到模块码段：15xxx
const checkinCodeBase = 15000

// CheckinHandler 签到模块 HTTP 处理器
type CheckinHandler struct {
	checkinSvc service.CheckinService
}

// NewCheckinHandler 创建 CheckinHandler
func NewCheckinHandler(checkinSvc service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc}
}

// CheckIn 预约签到
// POST /api/v1/checkins
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkinSvc.CheckIn(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, checkinCodeBase)
		return
	}

	response.OK(c, result)
}

// QuickCheckIn 前台快捷签到（会员 + 课程定位预约）
// POST /api/v1/checkins/quick
func (h *CheckinHandler) QuickCheckIn(c *gin.Context) {
	var req dto.QuickCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkinSvc.QuickCheckIn(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, checkinCodeBase)
		return
	}

	response.OK(c, result)
}

// ManualCheckIn 散客到场登记
// POST /api/v1/checkins/manual
func (h *CheckinHandler) ManualCheckIn(c *gin.Context) {
	var req dto.ManualCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.checkinSvc.ManualCheckIn(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, checkinCodeBase)
		return
	}

	response.Created(c, result)
}
