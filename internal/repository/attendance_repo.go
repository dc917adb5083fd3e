package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
)

// AttendanceRepository 散客到场记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	ListBetween(ctx context.Context, tenantID string, from, to time.Time) ([]model.AttendanceRecord, error)
	CountBetween(ctx context.Context, tenantID string, from, to time.Time) (int64, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) ListBetween(ctx context.Context, tenantID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("tenant_id = ? AND check_in_time >= ? AND check_in_time < ?", tenantID, from, to).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountBetween(ctx context.Context, tenantID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("tenant_id = ? AND check_in_time >= ? AND check_in_time < ?", tenantID, from, to).
		Count(&count).Error
	return count, err
}
