package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gymtrack/backend/config"
	"gymtrack/backend/internal/api/handler"
	"gymtrack/backend/internal/api/middleware"
	"gymtrack/backend/pkg/jwt"
	"gymtrack/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部路由需认证，Token 由外部认证网关签发） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 课程类型模块
		courseTypes := v1.Group("/course-types")
		{
			courseTypes.GET("", h.CourseType.List)
			courseTypes.GET("/:id", h.CourseType.Get)
			courseTypes.POST("", middleware.RoleAuth("admin", "staff"), h.CourseType.Create)
			courseTypes.PUT("/:id", middleware.RoleAuth("admin", "staff"), h.CourseType.Update)
			courseTypes.POST("/:id/deactivate", middleware.RoleAuth("admin"), h.CourseType.Deactivate)
		}

		// 教室模块
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", h.Room.List)
			rooms.GET("/:id", h.Room.Get)
			rooms.POST("", middleware.RoleAuth("admin", "staff"), h.Room.Create)
			rooms.PUT("/:id", middleware.RoleAuth("admin", "staff"), h.Room.Update)
		}

		// 课程调度模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.List)
			courses.GET("/ical", h.Course.ICalFeed)
			courses.GET("/:id", h.Course.Get)
			courses.POST("", middleware.RoleAuth("admin", "staff"), h.Course.Create)
			courses.PUT("/:id", middleware.RoleAuth("admin", "staff"), h.Course.Update)
			courses.POST("/:id/cancel", middleware.RoleAuth("admin", "staff"), h.Course.Cancel)
			courses.POST("/:id/complete", middleware.RoleAuth("admin", "staff", "coach"), h.Course.Complete)
			courses.DELETE("/:id", middleware.RoleAuth("admin"), h.Course.Delete)
		}

		// 训练计划投影（只读）
		v1.POST("/programs/sessions", h.Course.ProgramSessions)

		// 预约模块
		bookings := v1.Group("/bookings")
		{
			bookings.GET("", h.Booking.List)
			bookings.GET("/:id", h.Booking.Get)
			bookings.POST("", middleware.RateLimit(rdb, 30, time.Minute), h.Booking.Create)
			bookings.POST("/:id/confirm", middleware.RoleAuth("admin", "staff"), h.Booking.Confirm)
			bookings.POST("/:id/cancel", h.Booking.Cancel)
			bookings.POST("/:id/no-show", middleware.RoleAuth("admin", "staff", "coach"), h.Booking.MarkNoShow)
			bookings.POST("/:id/complete", middleware.RoleAuth("admin", "staff", "coach"), h.Booking.MarkCompleted)
		}

		// 签到模块
		checkins := v1.Group("/checkins")
		checkins.Use(middleware.RoleAuth("admin", "staff"))
		{
			checkins.POST("", middleware.RateLimit(rdb, 60, time.Minute), h.Checkin.CheckIn)
			checkins.POST("/quick", h.Checkin.QuickCheckIn)
			checkins.POST("/manual", h.Checkin.ManualCheckIn)
		}

		// 看板统计模块
		v1.GET("/stats/today", middleware.RoleAuth("admin", "staff"), h.Stats.Today)

		// 通知模块
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.POST("/:id/read", h.Notification.MarkRead)
		}
	}

	return r
}
