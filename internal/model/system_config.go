package model

// SystemConfig 系统配置表 — 对应 system_config（每租户单行强类型）
type SystemConfig struct {
	TenantID            string `gorm:"type:uuid;primaryKey"  json:"-"`
	CheckInGraceMinutes int    `gorm:"not null;default:15"   json:"check_in_grace_minutes"`
	AutoConfirmBookings bool   `gorm:"not null;default:true" json:"auto_confirm_bookings"`
	BaseModel
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
