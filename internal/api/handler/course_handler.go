package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 课程模块码段：13xxx
const courseCodeBase = 13000

// CourseHandler 课程调度模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create 排课
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
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

	result, err := h.courseSvc.Create(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.Created(c, result)
}

// Get 获取课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "课程ID不能为空")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, course)
}

// List 获取课程列表
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	list, total, err := h.courseSvc.List(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update 编辑课程
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
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

	course, err := h.courseSvc.Update(c.Request.Context(), tenantID, id, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, course)
}

// Cancel 取消课程（幂等，级联取消活跃预约）
// POST /api/v1/courses/:id/cancel
func (h *CourseHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "课程ID不能为空")
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

	result, err := h.courseSvc.Cancel(c.Request.Context(), tenantID, id, callerID)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, result)
}

// Complete 人工结课
// POST /api/v1/courses/:id/complete
func (h *CourseHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "课程ID不能为空")
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

	course, err := h.courseSvc.Complete(c.Request.Context(), tenantID, id, callerID)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, course)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "课程ID不能为空")
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

	if err := h.courseSvc.Delete(c.Request.Context(), tenantID, id, callerID); err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, gin.H{"message": "课程已删除"})
}

// ICalFeed 导出课程表（iCalendar）
// GET /api/v1/courses/ical?date_from=&date_to=
func (h *CourseHandler) ICalFeed(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	from, err := time.Parse("2006-01-02", c.DefaultQuery("date_from", time.Now().Format("2006-01-02")))
	if err != nil {
		response.BadRequest(c, 13001, "date_from 格式不正确")
		return
	}
	to := from.AddDate(0, 0, 30)
	if raw := c.Query("date_to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			response.BadRequest(c, 13001, "date_to 格式不正确")
			return
		}
	}
	if to.Before(from) {
		response.BadRequest(c, 13001, "date_to 不能早于 date_from")
		return
	}

	feed, err := h.courseSvc.ICalFeed(c.Request.Context(), tenantID, from, to)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(200, "text/calendar; charset=utf-8", []byte(feed))
}

// ProgramSessions 训练计划期次预览
// POST /api/v1/programs/sessions
func (h *CourseHandler) ProgramSessions(c *gin.Context) {
	var req dto.ProgramSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	sessions, err := h.courseSvc.ProgramSessions(&req)
	if err != nil {
		handleBusinessError(c, err, courseCodeBase)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}
