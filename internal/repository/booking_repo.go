package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gymtrack/backend/internal/model"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// activeBookingStatuses 占用容量名额的预约状态
var activeBookingStatuses = []string{model.BookingStatusPending, model.BookingStatusConfirmed}

// BookingRepository 预约数据访问接口
// 容量计数只在本接口的事务内变更；课程调度与签到不直接触碰预约行
type BookingRepository interface {
	// CreateReserved 原子化「校验并占位」：对课程行加锁后检查课程状态、
	// 重复预约与容量，全部通过才落库。返回创建后课程是否满员。
	CreateReserved(ctx context.Context, booking *model.Booking) (full bool, err error)
	GetByID(ctx context.Context, tenantID, id string) (*model.Booking, error)
	ListByCourse(ctx context.Context, tenantID, courseID, status string, offset, limit int) ([]model.Booking, int64, error)
	ListByMember(ctx context.Context, tenantID, memberID, status string, offset, limit int) ([]model.Booking, int64, error)
	FindActiveByMemberAndCourse(ctx context.Context, tenantID, memberID, courseID string) (*model.Booking, error)
	CountActiveByCourse(ctx context.Context, courseID string) (int64, error)
	// UpdateStatus 带乐观锁的状态迁移
	UpdateStatus(ctx context.Context, booking *model.Booking) error
	// SetCheckedIn 条件更新防止重复签到：仅 checked_in=false 且 confirmed 时生效
	SetCheckedIn(ctx context.Context, tenantID, id string, at time.Time) error
	// CountCheckedInBetween 统计时间段内完成签到的预约数（看板投影）
	CountCheckedInBetween(ctx context.Context, tenantID string, from, to time.Time) (int64, error)
	// CountPresentNow 统计当前进行中课程里已签到的人数
	CountPresentNow(ctx context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error)
}

type bookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) CreateReserved(ctx context.Context, booking *model.Booking) (bool, error) {
	var full bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 对课程行加锁：同课程的并发预约在此串行化，
		// 「检查容量 + 写入预约」构成单一原子临界区
		var course model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ? AND tenant_id = ?", booking.CourseID, booking.TenantID).
			First(&course).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("课程", booking.CourseID)
			}
			return err
		}

		if course.Status != model.CourseStatusScheduled {
			return pkgerrors.State("课程", course.CourseID, "课程当前状态不可预约")
		}

		var dup int64
		if err := tx.Model(&model.Booking{}).
			Where("course_id = ? AND member_id = ? AND status IN ?",
				booking.CourseID, booking.MemberID, activeBookingStatuses).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return pkgerrors.Duplicate("预约", booking.CourseID, "该会员已持有此课程的活跃预约")
		}

		var active int64
		if err := tx.Model(&model.Booking{}).
			Where("course_id = ? AND status IN ?", booking.CourseID, activeBookingStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active >= int64(course.MaxParticipants) {
			return pkgerrors.Capacity("课程", course.CourseID, "课程名额已满")
		}

		if booking.BookingID == "" {
			booking.BookingID = uuid.NewString()
		}
		if booking.BookingDate.IsZero() {
			booking.BookingDate = time.Now()
		}
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		full = active+1 >= int64(course.MaxParticipants)
		return nil
	})
	return full, err
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Member").
		Where("booking_id = ? AND tenant_id = ?", id, tenantID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) ListByCourse(ctx context.Context, tenantID, courseID, status string, offset, limit int) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("tenant_id = ? AND course_id = ?", tenantID, courseID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	err := q.Preload("Member").
		Order("booking_date ASC, booking_id ASC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *bookingRepo) ListByMember(ctx context.Context, tenantID, memberID, status string, offset, limit int) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("tenant_id = ? AND member_id = ?", tenantID, memberID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	err := q.Preload("Course").
		Order("booking_date ASC, booking_id ASC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *bookingRepo) FindActiveByMemberAndCourse(ctx context.Context, tenantID, memberID, courseID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND member_id = ? AND course_id = ? AND status IN ?",
			tenantID, memberID, courseID, activeBookingStatuses).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) CountActiveByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("course_id = ? AND status IN ?", courseID, activeBookingStatuses).
		Count(&count).Error
	return count, err
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, booking *model.Booking) error {
	oldVersion := booking.Version
	result := r.db.WithContext(ctx).
		Model(booking).
		Where("booking_id = ? AND version = ?", booking.BookingID, oldVersion).
		Updates(map[string]interface{}{
			"status":     booking.Status,
			"notes":      booking.Notes,
			"updated_by": booking.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	booking.Version = oldVersion + 1
	return nil
}

func (r *bookingRepo) SetCheckedIn(ctx context.Context, tenantID, id string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("booking_id = ? AND tenant_id = ? AND checked_in = ? AND status = ?",
			id, tenantID, false, model.BookingStatusConfirmed).
		Updates(map[string]interface{}{
			"checked_in":    true,
			"check_in_time": at,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	// 条件不满足说明并发签到已先行完成或状态已变化
	if result.RowsAffected == 0 {
		return pkgerrors.State("预约", id, "预约已签到或状态不允许签到")
	}
	return nil
}

func (r *bookingRepo) CountCheckedInBetween(ctx context.Context, tenantID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("tenant_id = ? AND checked_in = ? AND check_in_time >= ? AND check_in_time < ?",
			tenantID, true, from, to).
		Count(&count).Error
	return count, err
}

func (r *bookingRepo) CountPresentNow(ctx context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Joins("JOIN courses ON courses.course_id = bookings.course_id").
		Where("bookings.tenant_id = ? AND bookings.checked_in = ?", tenantID, true).
		Where("courses.date = ? AND courses.start_time <= ? AND courses.end_time > ?",
			date, nowHHMM, nowHHMM).
		Where("courses.status != ?", model.CourseStatusCancelled).
		Count(&count).Error
	return count, err
}
