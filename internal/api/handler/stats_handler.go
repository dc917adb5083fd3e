package handler

import (
	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/service"
	"gymtrack/backend/pkg/response"
)

// 统计模块码段：16xxx
const statsCodeBase = 16000

// StatsHandler 前台看板统计 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// Today 当日看板统计
// GET /api/v1/stats/today
func (h *StatsHandler) Today(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	stats, err := h.statsSvc.Today(c.Request.Context(), tenantID)
	if err != nil {
		handleBusinessError(c, err, statsCodeBase)
		return
	}

	response.OK(c, stats)
}
