package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	CourseType   CourseTypeRepository
	Room         RoomRepository
	Coach        CoachRepository
	Member       MemberRepository
	Course       CourseRepository
	Booking      BookingRepository
	Attendance   AttendanceRepository
	Notification NotificationRepository
	SystemConfig SystemConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CourseType:   NewCourseTypeRepo(db),
		Room:         NewRoomRepo(db),
		Coach:        NewCoachRepo(db),
		Member:       NewMemberRepo(db),
		Course:       NewCourseRepo(db),
		Booking:      NewBookingRepo(db),
		Attendance:   NewAttendanceRepo(db),
		Notification: NewNotificationRepo(db),
		SystemConfig: NewSystemConfigRepo(db),
	}
}
