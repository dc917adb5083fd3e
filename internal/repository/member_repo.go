package repository

import (
	"context"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
)

// MemberRepository 会员目录数据访问接口（外部会员目录的本地投影，只读消费）
type MemberRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*model.Member, error)
}

type memberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND tenant_id = ?", id, tenantID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
