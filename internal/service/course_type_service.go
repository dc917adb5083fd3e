package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/model"
	"gymtrack/backend/internal/repository"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// CourseTypeService 课程类型业务接口
type CourseTypeService interface {
	Create(ctx context.Context, tenantID string, req *dto.CreateCourseTypeRequest, callerID string) (*dto.CourseTypeResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (*dto.CourseTypeResponse, error)
	List(ctx context.Context, tenantID string, includeInactive bool) ([]dto.CourseTypeResponse, error)
	// Update 显式版本化编辑；对已排课程不产生追溯影响
	Update(ctx context.Context, tenantID, id string, req *dto.UpdateCourseTypeRequest, callerID string) (*dto.CourseTypeResponse, error)
	// Deactivate 停用后不再出现在新排课中，已排课程不受影响
	Deactivate(ctx context.Context, tenantID, id, callerID string) error
}

type courseTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseTypeService 创建 CourseTypeService 实例
func NewCourseTypeService(repo *repository.Repository, logger *zap.Logger) CourseTypeService {
	return &courseTypeService{repo: repo, logger: logger}
}

func (s *courseTypeService) Create(ctx context.Context, tenantID string, req *dto.CreateCourseTypeRequest, callerID string) (*dto.CourseTypeResponse, error) {
	ct := &model.CourseType{
		TenantID:               tenantID,
		Name:                   req.Name,
		DurationMinutes:        req.DurationMinutes,
		DefaultMaxParticipants: req.DefaultMaxParticipants,
		PriceCents:             req.PriceCents,
		Equipment:              req.Equipment,
		IsActive:               true,
	}
	ct.CreatedBy = &callerID
	ct.UpdatedBy = &callerID

	if err := s.repo.CourseType.Create(ctx, ct); err != nil {
		s.logger.Error("创建课程类型失败", zap.Error(err))
		return nil, err
	}

	return toCourseTypeResponse(ct), nil
}

func (s *courseTypeService) GetByID(ctx context.Context, tenantID, id string) (*dto.CourseTypeResponse, error) {
	ct, err := s.repo.CourseType.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程类型", id)
		}
		s.logger.Error("查询课程类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseTypeResponse(ct), nil
}

func (s *courseTypeService) List(ctx context.Context, tenantID string, includeInactive bool) ([]dto.CourseTypeResponse, error) {
	cts, err := s.repo.CourseType.List(ctx, tenantID, includeInactive)
	if err != nil {
		s.logger.Error("列出课程类型失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseTypeResponse, 0, len(cts))
	for i := range cts {
		result = append(result, *toCourseTypeResponse(&cts[i]))
	}
	return result, nil
}

func (s *courseTypeService) Update(ctx context.Context, tenantID, id string, req *dto.UpdateCourseTypeRequest, callerID string) (*dto.CourseTypeResponse, error) {
	ct, err := s.repo.CourseType.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程类型", id)
		}
		return nil, err
	}

	if req.Name != nil {
		ct.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		ct.DurationMinutes = *req.DurationMinutes
	}
	if req.DefaultMaxParticipants != nil {
		ct.DefaultMaxParticipants = *req.DefaultMaxParticipants
	}
	if req.PriceCents != nil {
		ct.PriceCents = *req.PriceCents
	}
	if req.Equipment != nil {
		ct.Equipment = req.Equipment
	}
	if req.IsActive != nil {
		ct.IsActive = *req.IsActive
	}
	ct.UpdatedBy = &callerID

	if err := s.repo.CourseType.Update(ctx, ct); err != nil {
		s.logger.Error("更新课程类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseTypeResponse(ct), nil
}

func (s *courseTypeService) Deactivate(ctx context.Context, tenantID, id, callerID string) error {
	ct, err := s.repo.CourseType.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("课程类型", id)
		}
		return err
	}
	if !ct.IsActive {
		return nil // 已停用，幂等
	}

	ct.IsActive = false
	ct.UpdatedBy = &callerID
	return s.repo.CourseType.Update(ctx, ct)
}

func toCourseTypeResponse(ct *model.CourseType) *dto.CourseTypeResponse {
	return &dto.CourseTypeResponse{
		ID:                     ct.CourseTypeID,
		Name:                   ct.Name,
		DurationMinutes:        ct.DurationMinutes,
		DefaultMaxParticipants: ct.DefaultMaxParticipants,
		PriceCents:             ct.PriceCents,
		Equipment:              ct.Equipment,
		IsActive:               ct.IsActive,
		CreatedAt:              ct.CreatedAt.Format(timeLayout),
		UpdatedAt:              ct.UpdatedAt.Format(timeLayout),
	}
}
