package model

// 通知类型
const (
	NotificationCourseFull       = "course_full"
	NotificationCourseCancelled  = "course_cancelled"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationBookingConfirmed = "booking_confirmed"
)

// Notification 通知消息表 — 对应 notifications
// 核心状态变更产生的读模型事件，供外部看板展示；不参与调度状态机
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	TenantID       string  `gorm:"type:uuid;not null"                             json:"tenant_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // course | booking
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
