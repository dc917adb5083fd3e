package model

import "time"

// 课程状态
const (
	CourseStatusScheduled = "scheduled"
	CourseStatusOngoing   = "ongoing"
	CourseStatusCompleted = "completed"
	CourseStatusCancelled = "cancelled"
)

// Course 课程表 — 对应 courses（单次排课实例）
// 不变量：start_time < end_time；max_participants ≤ room.capacity；
// 同一教练/教室在非 cancelled 课程间时间窗不得重叠
type Course struct {
	CourseID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	TenantID        string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	CourseTypeID    string    `gorm:"type:uuid;not null"                             json:"course_type_id"`
	CoachID         string    `gorm:"type:uuid;not null"                             json:"coach_id"`
	RoomID          string    `gorm:"type:uuid;not null"                             json:"room_id"`
	Date            time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime       string    `gorm:"type:time;not null"                             json:"start_time"` // HH:MM
	EndTime         string    `gorm:"type:time;not null"                             json:"end_time"`   // HH:MM
	MaxParticipants int       `gorm:"type:smallint;not null"                         json:"max_participants"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	Description     string    `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	VersionedModel

	// 关联
	CourseType *CourseType `gorm:"foreignKey:CourseTypeID;references:CourseTypeID" json:"course_type,omitempty"`
	Coach      *Coach      `gorm:"foreignKey:CoachID;references:CoachID"           json:"coach,omitempty"`
	Room       *Room       `gorm:"foreignKey:RoomID;references:RoomID"             json:"room,omitempty"`
	Bookings   []Booking   `gorm:"foreignKey:CourseID"                             json:"bookings,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// StartAt 组合 date + start_time 为完整时刻
func (c *Course) StartAt() time.Time {
	return combineDateTime(c.Date, c.StartTime)
}

// EndAt 组合 date + end_time 为完整时刻
func (c *Course) EndAt() time.Time {
	return combineDateTime(c.Date, c.EndTime)
}

// combineDateTime 解析失败时返回零值时刻：
// 依赖时间窗判定的调用方会因此拒绝操作，而不是落入错误的窗口
func combineDateTime(date time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		// PostgreSQL time 列回读为 HH:MM:SS
		t, err = time.Parse("15:04:05", hhmm)
		if err != nil {
			return time.Time{}
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
