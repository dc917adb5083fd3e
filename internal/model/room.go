package model

// Room 教室表 — 对应 rooms
// capacity 是课程 max_participants 的物理上限
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	TenantID string `gorm:"type:uuid;not null"                             json:"tenant_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity int    `gorm:"type:smallint;not null"                         json:"capacity"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
