package repository

import (
	"context"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// CourseTypeRepository 课程类型数据访问接口
type CourseTypeRepository interface {
	Create(ctx context.Context, ct *model.CourseType) error
	GetByID(ctx context.Context, tenantID, id string) (*model.CourseType, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]model.CourseType, error)
	Update(ctx context.Context, ct *model.CourseType) error
}

type courseTypeRepo struct {
	db *gorm.DB
}

func NewCourseTypeRepo(db *gorm.DB) CourseTypeRepository {
	return &courseTypeRepo{db: db}
}

func (r *courseTypeRepo) Create(ctx context.Context, ct *model.CourseType) error {
	return r.db.WithContext(ctx).Create(ct).Error
}

func (r *courseTypeRepo) GetByID(ctx context.Context, tenantID, id string) (*model.CourseType, error) {
	var ct model.CourseType
	err := r.db.WithContext(ctx).
		Where("course_type_id = ? AND tenant_id = ?", id, tenantID).
		First(&ct).Error
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *courseTypeRepo) List(ctx context.Context, tenantID string, includeInactive bool) ([]model.CourseType, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var result []model.CourseType
	err := q.Order("name ASC").Find(&result).Error
	return result, err
}

func (r *courseTypeRepo) Update(ctx context.Context, ct *model.CourseType) error {
	oldVersion := ct.Version
	result := r.db.WithContext(ctx).
		Model(ct).
		Where("course_type_id = ? AND version = ?", ct.CourseTypeID, oldVersion).
		Updates(map[string]interface{}{
			"name":                     ct.Name,
			"duration_minutes":         ct.DurationMinutes,
			"default_max_participants": ct.DefaultMaxParticipants,
			"price_cents":              ct.PriceCents,
			"equipment":                ct.Equipment,
			"is_active":                ct.IsActive,
			"updated_by":               ct.UpdatedBy,
			"version":                  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	ct.Version = oldVersion + 1
	return nil
}
