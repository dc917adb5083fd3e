package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/model"
	"gymtrack/backend/internal/repository"
	pkgerrors "gymtrack/backend/pkg/errors"
	"gymtrack/backend/pkg/redis"
)

// CheckinService 签到业务接口
// 签到窗口为 [课程开始 - 宽限分钟, 课程结束]，宽限取自租户系统配置
type CheckinService interface {
	CheckIn(ctx context.Context, tenantID string, req *dto.CheckInRequest, callerID string) (*dto.CheckInResponse, error)
	// QuickCheckIn 前台按会员+课程定位活跃预约后签到
	QuickCheckIn(ctx context.Context, tenantID string, req *dto.QuickCheckInRequest, callerID string) (*dto.CheckInResponse, error)
	// ManualCheckIn 散客到场登记，不经过预约状态机
	ManualCheckIn(ctx context.Context, tenantID string, req *dto.ManualCheckInRequest, callerID string) (*dto.AttendanceResponse, error)
}

type checkinService struct {
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckinService 创建 CheckinService 实例；rdb 可为 nil（计数降级到数据库）
func NewCheckinService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) CheckinService {
	return &checkinService{repo: repo, rdb: rdb, logger: logger, now: time.Now}
}

func (s *checkinService) CheckIn(ctx context.Context, tenantID string, req *dto.CheckInRequest, callerID string) (*dto.CheckInResponse, error) {
	ts := s.now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return nil, pkgerrors.Validation("timestamp", "时间格式须为 RFC3339")
		}
		ts = parsed
	}

	booking, err := s.repo.Booking.GetByID(ctx, tenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("预约", req.BookingID)
		}
		return nil, err
	}
	return s.checkInBooking(ctx, tenantID, booking, ts)
}

func (s *checkinService) QuickCheckIn(ctx context.Context, tenantID string, req *dto.QuickCheckInRequest, callerID string) (*dto.CheckInResponse, error) {
	booking, err := s.repo.Booking.FindActiveByMemberAndCourse(ctx, tenantID, req.MemberID, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("预约", "")
		}
		return nil, err
	}
	return s.checkInBooking(ctx, tenantID, booking, s.now())
}

func (s *checkinService) checkInBooking(ctx context.Context, tenantID string, booking *model.Booking, ts time.Time) (*dto.CheckInResponse, error) {
	if booking.Status == model.BookingStatusPending {
		return nil, pkgerrors.State("预约", booking.BookingID, "预约尚未确认，不可签到")
	}
	if booking.Status != model.BookingStatusConfirmed {
		return nil, pkgerrors.State("预约", booking.BookingID, "预约当前状态不可签到")
	}
	if booking.CheckedIn {
		return nil, pkgerrors.State("预约", booking.BookingID, "该预约已签到，请勿重复签到")
	}

	course, err := s.repo.Course.GetByID(ctx, tenantID, booking.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == model.CourseStatusCancelled {
		return nil, pkgerrors.State("课程", course.CourseID, "课程已取消，不可签到")
	}

	sysCfg, err := s.repo.SystemConfig.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	windowStart := course.StartAt().Add(-time.Duration(sysCfg.CheckInGraceMinutes) * time.Minute)
	windowEnd := course.EndAt()
	if ts.Before(windowStart) || ts.After(windowEnd) {
		return nil, pkgerrors.Window("预约", booking.BookingID,
			fmt.Sprintf("不在签到窗口内（%s ~ %s）",
				windowStart.Format("15:04"), windowEnd.Format("15:04")))
	}

	// 条件更新在数据库侧再挡一次并发重复签到
	if err := s.repo.Booking.SetCheckedIn(ctx, tenantID, booking.BookingID, ts); err != nil {
		return nil, err
	}
	booking.CheckedIn = true
	booking.CheckInTime = &ts

	s.incrCounter(ctx, tenantID, ts)
	s.logger.Info("签到成功",
		zap.String("booking_id", booking.BookingID),
		zap.String("course_id", booking.CourseID))

	return &dto.CheckInResponse{Booking: toBookingResponse(booking), Message: "签到成功"}, nil
}

func (s *checkinService) ManualCheckIn(ctx context.Context, tenantID string, req *dto.ManualCheckInRequest, callerID string) (*dto.AttendanceResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, tenantID, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("会员", req.MemberID)
		}
		return nil, err
	}
	if member.Status != model.MemberStatusActive {
		return nil, pkgerrors.State("会员", member.MemberID, "会员非活跃状态，无法到场登记")
	}
	if !member.HasActiveSubscription {
		return nil, pkgerrors.State("会员", member.MemberID, "会员无有效订阅，无法到场登记")
	}

	ts := s.now()
	record := &model.AttendanceRecord{
		AttendanceID: uuid.NewString(),
		TenantID:     tenantID,
		MemberID:     req.MemberID,
		CheckInTime:  ts,
		Source:       "walk_in",
		Notes:        req.Notes,
		CreatedBy:    &callerID,
	}
	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		s.logger.Error("写入到场记录失败", zap.String("member_id", req.MemberID), zap.Error(err))
		return nil, err
	}

	s.incrCounter(ctx, tenantID, ts)

	return &dto.AttendanceResponse{
		ID:          record.AttendanceID,
		Member:      &dto.MemberBrief{ID: member.MemberID, Name: member.Name, Phone: member.Phone},
		CheckInTime: ts.Format(timeLayout),
		Source:      record.Source,
		Notes:       record.Notes,
	}, nil
}

// incrCounter redis 计数仅为看板加速，失败不影响签到结果
func (s *checkinService) incrCounter(ctx context.Context, tenantID string, day time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.IncrCheckinCount(ctx, tenantID, day); err != nil {
		s.logger.Warn("更新签到计数失败", zap.Error(err))
	}
}
