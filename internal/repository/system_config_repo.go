package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
)

// SystemConfigRepository 系统配置数据访问接口（每租户单行）
type SystemConfigRepository interface {
	Get(ctx context.Context, tenantID string) (*model.SystemConfig, error)
	Update(ctx context.Context, cfg *model.SystemConfig) error
}

type systemConfigRepo struct {
	db *gorm.DB
}

func NewSystemConfigRepo(db *gorm.DB) SystemConfigRepository {
	return &systemConfigRepo{db: db}
}

// Get 读取租户配置；不存在时返回默认值（不落库）
func (r *systemConfigRepo) Get(ctx context.Context, tenantID string) (*model.SystemConfig, error) {
	var cfg model.SystemConfig
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.SystemConfig{
			TenantID:            tenantID,
			CheckInGraceMinutes: 15,
			AutoConfirmBookings: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *systemConfigRepo) Update(ctx context.Context, cfg *model.SystemConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
