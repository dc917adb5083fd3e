package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 预约模块码段：14xxx
const bookingCodeBase = 14000

// BookingHandler 预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// Create 创建预约
// POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
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

	result, err := h.bookingSvc.Create(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, bookingCodeBase)
		return
	}

	response.Created(c, result)
}

// Get 获取预约详情
// GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "预约ID不能为空")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		handleBusinessError(c, err, bookingCodeBase)
		return
	}

	response.OK(c, booking)
}

// List 获取预约列表（按课程或按会员）
// GET /api/v1/bookings?course_id=&member_id=&status=
func (h *BookingHandler) List(c *gin.Context) {
	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	list, total, err := h.bookingSvc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleBusinessError(c, err, bookingCodeBase)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Confirm 确认预约
// POST /api/v1/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.action(c, h.bookingSvc.Confirm)
}

// Cancel 取消预约
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.action(c, h.bookingSvc.Cancel)
}

// MarkNoShow 标记缺席
// POST /api/v1/bookings/:id/no-show
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.action(c, h.bookingSvc.MarkNoShow)
}

// MarkCompleted 结转完成
// POST /api/v1/bookings/:id/complete
func (h *BookingHandler) MarkCompleted(c *gin.Context) {
	h.action(c, h.bookingSvc.MarkCompleted)
}

// action 预约状态迁移操作的公共骨架
func (h *BookingHandler) action(c *gin.Context, fn func(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error)) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "预约ID不能为空")
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

	result, err := fn(c.Request.Context(), tenantID, id, callerID)
	if err != nil {
		handleBusinessError(c, err, bookingCodeBase)
		return
	}

	response.OK(c, result)
}
