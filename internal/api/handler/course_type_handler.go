package handler

import (
	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 课程类型模块码段：11xxx
const courseTypeCodeBase = 11000

// CourseTypeHandler 课程类型模块 HTTP 处理器
type CourseTypeHandler struct {
	courseTypeSvc service.CourseTypeService
}

// NewCourseTypeHandler 创建 CourseTypeHandler
func NewCourseTypeHandler(courseTypeSvc service.CourseTypeService) *CourseTypeHandler {
	return &CourseTypeHandler{courseTypeSvc: courseTypeSvc}
}

// Create 创建课程类型
// POST /api/v1/course-types
func (h *CourseTypeHandler) Create(c *gin.Context) {
	var req dto.CreateCourseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
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

	ct, err := h.courseTypeSvc.Create(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, courseTypeCodeBase)
		return
	}

	response.Created(c, ct)
}

// Get 获取课程类型详情
// GET /api/v1/course-types/:id
func (h *CourseTypeHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "课程类型ID不能为空")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	ct, err := h.courseTypeSvc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		handleBusinessError(c, err, courseTypeCodeBase)
		return
	}

	response.OK(c, ct)
}

// List 获取课程类型列表
// GET /api/v1/course-types
func (h *CourseTypeHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	list, err := h.courseTypeSvc.List(c.Request.Context(), tenantID, includeInactive)
	if err != nil {
		handleBusinessError(c, err, courseTypeCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Update 编辑课程类型
// PUT /api/v1/course-types/:id
func (h *CourseTypeHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "课程类型ID不能为空")
		return
	}

	var req dto.UpdateCourseTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
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

	ct, err := h.courseTypeSvc.Update(c.Request.Context(), tenantID, id, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, courseTypeCodeBase)
		return
	}

	response.OK(c, ct)
}

// Deactivate 停用课程类型
// POST /api/v1/course-types/:id/deactivate
func (h *CourseTypeHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "课程类型ID不能为空")
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

	if err := h.courseTypeSvc.Deactivate(c.Request.Context(), tenantID, id, callerID); err != nil {
		handleBusinessError(c, err, courseTypeCodeBase)
		return
	}

	response.OK(c, gin.H{"message": "课程类型已停用"})
}
