package handler

import "gymtrack/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	CourseType   *CourseTypeHandler
	Room         *RoomHandler
	Course       *CourseHandler
	Booking      *BookingHandler
	Checkin      *CheckinHandler
	Stats        *StatsHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		CourseType:   NewCourseTypeHandler(svc.CourseType),
		Room:         NewRoomHandler(svc.Room),
		Course:       NewCourseHandler(svc.Course),
		Booking:      NewBookingHandler(svc.Booking),
		Checkin:      NewCheckinHandler(svc.Checkin),
		Stats:        NewStatsHandler(svc.Stats),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
