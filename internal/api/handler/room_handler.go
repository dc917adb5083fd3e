package handler

import (
	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 教室模块码段：12xxx
const roomCodeBase = 12000

// RoomHandler 教室模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// Create 创建教室
// POST /api/v1/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
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

	room, err := h.roomSvc.Create(c.Request.Context(), tenantID, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, roomCodeBase)
		return
	}

	response.Created(c, room)
}

// Get 获取教室详情
// GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "教室ID不能为空")
		return
	}

	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		handleBusinessError(c, err, roomCodeBase)
		return
	}

	response.OK(c, room)
}

// List 获取教室列表
// GET /api/v1/rooms
func (h *RoomHandler) List(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	list, err := h.roomSvc.List(c.Request.Context(), tenantID, includeInactive)
	if err != nil {
		handleBusinessError(c, err, roomCodeBase)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Update 编辑教室
// PUT /api/v1/rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "教室ID不能为空")
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
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

	room, err := h.roomSvc.Update(c.Request.Context(), tenantID, id, &req, callerID)
	if err != nil {
		handleBusinessError(c, err, roomCodeBase)
		return
	}

	response.OK(c, room)
}
