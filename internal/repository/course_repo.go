package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymtrack/backend/internal/model"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// CourseFilter 课程列表过滤条件
type CourseFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Status   string
	CoachID  string
	RoomID   string
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Course, error)
	List(ctx context.Context, tenantID string, filter CourseFilter, offset, limit int) ([]model.Course, int64, error)
	ListByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// ListOverlapping 返回与给定时间窗重叠、且共享教练或教室的非 cancelled 课程
	ListOverlapping(ctx context.Context, tenantID string, date time.Time, startTime, endTime, coachID, roomID, excludeID string) ([]model.Course, error)
	// CancelCascade 在单事务内取消课程并级联取消所有活跃预约；
	// 已取消课程幂等返回空列表；返回被级联取消的预约（供调用方发通知）
	CancelCascade(ctx context.Context, tenantID, id, callerID string) (*model.Course, []model.Booking, error)
	// DeleteWithBookings 删除课程及其全部预约（仅 scheduled/cancelled 状态）
	DeleteWithBookings(ctx context.Context, tenantID, id, callerID string) error
	// CountOngoing 统计指定时刻进行中的课程数
	CountOngoing(ctx context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("CourseType").
		Preload("Coach").
		Preload("Room").
		Where("course_id = ? AND tenant_id = ?", id, tenantID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, tenantID string, filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Course{}).Where("tenant_id = ?", tenantID)
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date <= ?", filter.DateTo)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CoachID != "" {
		q = q.Where("coach_id = ?", filter.CoachID)
	}
	if filter.RoomID != "" {
		q = q.Where("room_id = ?", filter.RoomID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := q.
		Preload("CourseType").
		Preload("Coach").
		Preload("Room").
		Order("date ASC, start_time ASC, course_id ASC").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *courseRepo) ListByDateRange(ctx context.Context, tenantID string, from, to time.Time) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("CourseType").
		Preload("Coach").
		Preload("Room").
		Where("tenant_id = ? AND date >= ? AND date <= ? AND status != ?",
			tenantID, from, to, model.CourseStatusCancelled).
		Order("date ASC, start_time ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	oldVersion := course.Version
	result := r.db.WithContext(ctx).
		Model(course).
		Where("course_id = ? AND version = ?", course.CourseID, oldVersion).
		Updates(map[string]interface{}{
			"coach_id":         course.CoachID,
			"room_id":          course.RoomID,
			"date":             course.Date,
			"start_time":       course.StartTime,
			"end_time":         course.EndTime,
			"max_participants": course.MaxParticipants,
			"status":           course.Status,
			"description":      course.Description,
			"updated_by":       course.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version = oldVersion + 1
	return nil
}

// 重叠判定：同日两窗 [s1,e1) 与 [s2,e2) 重叠 ⟺ s1 < e2 AND s2 < e1
func (r *courseRepo) ListOverlapping(ctx context.Context, tenantID string, date time.Time, startTime, endTime, coachID, roomID, excludeID string) ([]model.Course, error) {
	q := r.db.WithContext(ctx).
		Where("tenant_id = ? AND date = ? AND status != ?", tenantID, date, model.CourseStatusCancelled).
		Where("start_time < ? AND ? < end_time", endTime, startTime).
		Where("coach_id = ? OR room_id = ?", coachID, roomID)
	if excludeID != "" {
		q = q.Where("course_id != ?", excludeID)
	}
	var courses []model.Course
	err := q.Find(&courses).Error
	return courses, err
}

func (r *courseRepo) CancelCascade(ctx context.Context, tenantID, id, callerID string) (*model.Course, []model.Booking, error) {
	var course model.Course
	var cancelled []model.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁定课程行，序列化与并发预约的竞争
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND tenant_id = ?", id, tenantID).
			First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("课程", id)
			}
			return err
		}

		// 幂等：已取消直接返回，级联数为 0
		if course.Status == model.CourseStatusCancelled {
			return nil
		}
		if course.Status == model.CourseStatusCompleted {
			return pkgerrors.State("课程", id, "已完成课程不可取消")
		}

		// 先取出未签到的活跃预约（供调用方通知），再统一置为 cancelled。
		// 已签到的活跃预约结转为 completed：会员已到场上课，
		// 且 checked_in=true 只允许停留在 confirmed/completed
		if err := tx.
			Where("course_id = ? AND checked_in = ? AND status IN ?", id, false,
				[]string{model.BookingStatusPending, model.BookingStatusConfirmed}).
			Find(&cancelled).Error; err != nil {
			return err
		}

		if len(cancelled) > 0 {
			if err := tx.Model(&model.Booking{}).
				Where("course_id = ? AND checked_in = ? AND status IN ?", id, false,
					[]string{model.BookingStatusPending, model.BookingStatusConfirmed}).
				Updates(map[string]interface{}{
					"status":     model.BookingStatusCancelled,
					"updated_by": callerID,
					"version":    gorm.Expr("version + 1"),
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.Booking{}).
			Where("course_id = ? AND checked_in = ? AND status = ?", id, true,
				model.BookingStatusConfirmed).
			Updates(map[string]interface{}{
				"status":     model.BookingStatusCompleted,
				"updated_by": callerID,
				"version":    gorm.Expr("version + 1"),
			}).Error; err != nil {
			return err
		}

		course.Status = model.CourseStatusCancelled
		course.UpdatedBy = &callerID
		return tx.Model(&course).
			Where("course_id = ?", id).
			Updates(map[string]interface{}{
				"status":     model.CourseStatusCancelled,
				"updated_by": callerID,
				"version":    gorm.Expr("version + 1"),
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &course, cancelled, nil
}

func (r *courseRepo) DeleteWithBookings(ctx context.Context, tenantID, id, callerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND tenant_id = ?", id, tenantID).
			First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("课程", id)
			}
			return err
		}

		if course.Status != model.CourseStatusScheduled && course.Status != model.CourseStatusCancelled {
			return pkgerrors.State("课程", id, "仅可删除未开始或已取消的课程")
		}

		// 预约随课程一并删除（课程取消/删除是预约列表唯一的批量清除入口）
		if err := tx.Where("course_id = ?", id).Delete(&model.Booking{}).Error; err != nil {
			return err
		}

		return tx.Model(&course).
			Where("course_id = ?", id).
			Updates(map[string]interface{}{
				"deleted_at": time.Now(),
				"deleted_by": callerID,
			}).Error
	})
}

func (r *courseRepo) CountOngoing(ctx context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("tenant_id = ? AND date = ? AND start_time <= ? AND end_time > ?",
			tenantID, date, nowHHMM, nowHHMM).
		Where("status IN ?", []string{model.CourseStatusScheduled, model.CourseStatusOngoing}).
		Count(&count).Error
	return count, err
}
