package model

// 会员状态
const (
	MemberStatusActive = "active"
	MemberStatusFrozen = "frozen"
	MemberStatusLeft   = "left"
)

// Member 会员表 — 对应 members（外部会员目录的本地投影）
// 预约与签到要求 status=active 且 has_active_subscription=true
type Member struct {
	MemberID              string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	TenantID              string `gorm:"type:uuid;not null"                             json:"tenant_id"`
	Name                  string `gorm:"type:varchar(100);not null"                     json:"name"`
	Phone                 string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Status                string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	HasActiveSubscription bool   `gorm:"not null;default:false"                         json:"has_active_subscription"`
	VersionedModel
}

// TableName 指定表名
func (Member) TableName() string { return "members" }
