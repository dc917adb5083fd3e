package model

// CourseType 课程类型模板表 — 对应 course_types
// 被已排课程引用后仅可通过显式编辑修改；停用后不再出现在新排课中
type CourseType struct {
	CourseTypeID           string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_type_id"`
	TenantID               string      `gorm:"type:uuid;not null"                             json:"tenant_id"`
	Name                   string      `gorm:"type:varchar(100);not null"                     json:"name"`
	DurationMinutes        int         `gorm:"type:smallint;not null"                         json:"duration_minutes"`
	DefaultMaxParticipants int         `gorm:"type:smallint;not null"                         json:"default_max_participants"`
	PriceCents             int         `gorm:"not null;default:0"                             json:"price_cents"`
	Equipment              StringArray `gorm:"type:text[];not null;default:'{}'"              json:"equipment"`
	IsActive               bool        `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (CourseType) TableName() string { return "course_types" }
