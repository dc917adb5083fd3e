package repository

import (
	"context"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
)

// CoachRepository 教练目录数据访问接口（外部教练目录的本地投影，只读消费）
type CoachRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*model.Coach, error)
	List(ctx context.Context, tenantID string) ([]model.Coach, error)
}

type coachRepo struct {
	db *gorm.DB
}

func NewCoachRepo(db *gorm.DB) CoachRepository {
	return &coachRepo{db: db}
}

func (r *coachRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Coach, error) {
	var coach model.Coach
	err := r.db.WithContext(ctx).
		Where("coach_id = ? AND tenant_id = ?", id, tenantID).
		First(&coach).Error
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (r *coachRepo) List(ctx context.Context, tenantID string) ([]model.Coach, error) {
	var result []model.Coach
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Find(&result).Error
	return result, err
}
