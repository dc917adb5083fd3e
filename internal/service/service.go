package service

import (
	"go.uber.org/zap"

	"gymtrack/backend/internal/repository"
	"gymtrack/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	CourseType   CourseTypeService
	Room         RoomService
	Course       CourseService
	Booking      BookingService
	Checkin      CheckinService
	Stats        StatsService
	Notification NotificationService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		CourseType:   NewCourseTypeService(repo, logger),
		Room:         NewRoomService(repo, logger),
		Course:       NewCourseService(repo, logger),
		Booking:      NewBookingService(repo, logger),
		Checkin:      NewCheckinService(repo, rdb, logger),
		Stats:        NewStatsService(repo, rdb, logger),
		Notification: NewNotificationService(repo, logger),
	}
}

// timeLayout 响应中的统一时间格式
const timeLayout = "2006-01-02T15:04:05Z07:00"

// dateLayout 响应中的统一日期格式
const dateLayout = "2006-01-02"
