package model

import "time"

// 预约状态
// 状态机：pending → {confirmed, cancelled}；confirmed → {cancelled, completed, no_show}
// 终态 {cancelled, completed, no_show} 不可回退
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusNoShow    = "no_show"
)

// Booking 预约表 — 对应 bookings
// 不变量：同一 (member, course) 至多一条 {pending, confirmed} 预约；
// 课程的 {pending, confirmed} 预约数不得超过 max_participants（创建时原子校验）；
// checked_in=true 蕴含 status ∈ {confirmed, completed} 且 check_in_time 只写一次
type Booking struct {
	BookingID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	TenantID    string     `gorm:"type:uuid;not null"                             json:"tenant_id"`
	CourseID    string     `gorm:"type:uuid;not null"                             json:"course_id"`
	MemberID    string     `gorm:"type:uuid;not null"                             json:"member_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"`
	BookingDate time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"booking_date"`
	CheckedIn   bool       `gorm:"not null;default:false"                         json:"checked_in"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
	Notes       string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }

// IsActive 预约是否占用容量名额
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal 预约是否处于终态
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}
