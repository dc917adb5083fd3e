package model

import "time"

// AttendanceRecord 散客到场记录表 — 对应 attendance_records
// 与预约状态机分离：散客到场不占用课程容量
type AttendanceRecord struct {
	AttendanceID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	TenantID     string    `gorm:"type:uuid;not null"                             json:"tenant_id"`
	MemberID     string    `gorm:"type:uuid;not null"                             json:"member_id"`
	CheckInTime  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"check_in_time"`
	Source       string    `gorm:"type:varchar(20);not null;default:'walk_in'"    json:"source"`
	Notes        string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	// 关联
	Member *Member `gorm:"foreignKey:MemberID;references:MemberID" json:"member,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
