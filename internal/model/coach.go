package model

// Coach 教练表 — 对应 coaches（教练目录的本地投影）
type Coach struct {
	CoachID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"coach_id"`
	TenantID  string `gorm:"type:uuid;not null"                             json:"tenant_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Specialty string `gorm:"type:varchar(100)"                              json:"specialty,omitempty"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Coach) TableName() string { return "coaches" }
