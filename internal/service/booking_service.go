package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/model"
	"gymtrack/backend/internal/repository"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// BookingService 预约业务接口
// 容量与重复校验在仓储的原子占位事务内完成，本层负责会员资格、
// 状态机迁移与通知副作用
type BookingService interface {
	Create(ctx context.Context, tenantID string, req *dto.CreateBookingRequest, callerID string) (*dto.BookingActionResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (*dto.BookingResponse, error)
	List(ctx context.Context, tenantID string, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error)
	// Confirm pending → confirmed（auto_confirm 关闭时的外部确认入口）
	Confirm(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error)
	Cancel(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error)
	// MarkNoShow 课程结束后将未签到的 confirmed 预约标记为缺席
	MarkNoShow(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error)
	// MarkCompleted 课程结束后将已签到的 confirmed 预约结转为完成
	MarkCompleted(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, logger *zap.Logger) BookingService {
	return &bookingService{repo: repo, logger: logger, now: time.Now}
}

func (s *bookingService) Create(ctx context.Context, tenantID string, req *dto.CreateBookingRequest, callerID string) (*dto.BookingActionResponse, error) {
	member, err := s.repo.Member.GetByID(ctx, tenantID, req.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("会员", req.MemberID)
		}
		return nil, err
	}
	if member.Status != model.MemberStatusActive {
		return nil, pkgerrors.State("会员", member.MemberID, "会员非活跃状态，无法预约")
	}
	if !member.HasActiveSubscription {
		return nil, pkgerrors.State("会员", member.MemberID, "会员无有效订阅，无法预约")
	}

	sysCfg, err := s.repo.SystemConfig.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	status := model.BookingStatusConfirmed
	if !sysCfg.AutoConfirmBookings {
		status = model.BookingStatusPending
	}

	booking := &model.Booking{
		TenantID:    tenantID,
		CourseID:    req.CourseID,
		MemberID:    req.MemberID,
		Status:      status,
		BookingDate: s.now(),
		Notes:       req.Notes,
		Version:     1,
	}
	booking.CreatedBy = &callerID
	booking.UpdatedBy = &callerID

	full, err := s.repo.Booking.CreateReserved(ctx, booking)
	if err != nil {
		if pkgerrors.AsError(err) == nil {
			s.logger.Error("创建预约失败",
				zap.String("course_id", req.CourseID),
				zap.String("member_id", req.MemberID),
				zap.Error(err))
		}
		return nil, err
	}
	booking.Member = member

	s.logger.Info("预约创建成功",
		zap.String("booking_id", booking.BookingID),
		zap.String("course_id", req.CourseID),
		zap.String("status", status),
		zap.Bool("course_full", full))

	// 占满最后一个名额的这次调用负责发满员通知
	if full {
		s.notifyCourseFull(ctx, tenantID, req.CourseID)
	}

	msg := "预约成功"
	if status == model.BookingStatusPending {
		msg = "预约已提交，等待确认"
	}
	return &dto.BookingActionResponse{Booking: toBookingResponse(booking), Message: msg}, nil
}

func (s *bookingService) GetByID(ctx context.Context, tenantID, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("预约", id)
		}
		return nil, err
	}
	return toBookingResponse(booking), nil
}

func (s *bookingService) List(ctx context.Context, tenantID string, req *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	var (
		bookings []model.Booking
		total    int64
		err      error
	)
	switch {
	case req.CourseID != "":
		bookings, total, err = s.repo.Booking.ListByCourse(ctx, tenantID, req.CourseID, req.Status, req.GetOffset(), req.GetPageSize())
	case req.MemberID != "":
		bookings, total, err = s.repo.Booking.ListByMember(ctx, tenantID, req.MemberID, req.Status, req.GetOffset(), req.GetPageSize())
	default:
		return nil, 0, pkgerrors.Validation("course_id", "course_id 与 member_id 至少提供一个")
	}
	if err != nil {
		s.logger.Error("列出预约失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, *toBookingResponse(&bookings[i]))
	}
	return result, total, nil
}

func (s *bookingService) Confirm(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("预约", id)
		}
		return nil, err
	}
	if booking.Status != model.BookingStatusPending {
		return nil, pkgerrors.State("预约", id, "仅待确认预约可确认")
	}

	booking.Status = model.BookingStatusConfirmed
	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, tenantID, booking.MemberID, model.NotificationBookingConfirmed,
		"预约已确认", "您的课程预约已确认", "booking", booking.BookingID)

	return &dto.BookingActionResponse{Booking: toBookingResponse(booking), Message: "预约已确认"}, nil
}

func (s *bookingService) Cancel(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("预约", id)
		}
		return nil, err
	}
	if !booking.IsActive() {
		return nil, pkgerrors.State("预约", id, "预约当前状态不可取消")
	}
	// checked_in=true 只允许停留在 confirmed 或结转为 completed
	if booking.CheckedIn {
		return nil, pkgerrors.State("预约", id, "已签到的预约不可取消")
	}

	course, err := s.repo.Course.GetByID(ctx, tenantID, booking.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Status == model.CourseStatusCompleted {
		return nil, pkgerrors.State("预约", id, "课程已结束，预约不可取消")
	}

	booking.Status = model.BookingStatusCancelled
	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("预约已取消",
		zap.String("booking_id", id),
		zap.String("course_id", booking.CourseID))

	s.notify(ctx, tenantID, booking.MemberID, model.NotificationBookingCancelled,
		"预约已取消", "您的课程预约已取消，名额已释放", "booking", booking.BookingID)

	return &dto.BookingActionResponse{Booking: toBookingResponse(booking), Message: "预约已取消，名额已释放"}, nil
}

func (s *bookingService) MarkNoShow(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error) {
	booking, course, err := s.loadForSettle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if booking.CheckedIn {
		return nil, pkgerrors.State("预约", id, "已签到的预约不可标记缺席")
	}
	if course.Status != model.CourseStatusCompleted && s.now().Before(course.EndAt()) {
		return nil, pkgerrors.State("预约", id, "课程尚未结束，不可标记缺席")
	}

	booking.Status = model.BookingStatusNoShow
	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}
	return &dto.BookingActionResponse{Booking: toBookingResponse(booking), Message: "已标记缺席"}, nil
}

func (s *bookingService) MarkCompleted(ctx context.Context, tenantID, id, callerID string) (*dto.BookingActionResponse, error) {
	booking, course, err := s.loadForSettle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !booking.CheckedIn {
		return nil, pkgerrors.State("预约", id, "未签到的预约不可结转为完成")
	}
	if course.Status != model.CourseStatusCompleted && s.now().Before(course.EndAt()) {
		return nil, pkgerrors.State("预约", id, "课程尚未结束，不可结转")
	}

	booking.Status = model.BookingStatusCompleted
	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}
	return &dto.BookingActionResponse{Booking: toBookingResponse(booking), Message: "预约已完成"}, nil
}

// loadForSettle 课后结算（缺席/完成）的公共装载与状态前置检查
func (s *bookingService) loadForSettle(ctx context.Context, tenantID, id string) (*model.Booking, *model.Course, error) {
	booking, err := s.repo.Booking.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.NotFound("预约", id)
		}
		return nil, nil, err
	}
	if booking.Status != model.BookingStatusConfirmed {
		return nil, nil, pkgerrors.State("预约", id, "仅已确认预约可课后结算")
	}
	course, err := s.repo.Course.GetByID(ctx, tenantID, booking.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return booking, course, nil
}

func (s *bookingService) notifyCourseFull(ctx context.Context, tenantID, courseID string) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, courseID)
	if err != nil {
		s.logger.Error("查询满员课程失败", zap.String("course_id", courseID), zap.Error(err))
		return
	}
	s.notify(ctx, tenantID, course.CoachID, model.NotificationCourseFull,
		"课程已满员",
		fmt.Sprintf("%s %s-%s 的课程名额已约满", course.Date.Format(dateLayout), course.StartTime, course.EndTime),
		"course", courseID)
}

// notify 通知写入失败仅记日志，不影响主流程
func (s *bookingService) notify(ctx context.Context, tenantID, userID, typ, title, content, relatedType, relatedID string) {
	n := &model.Notification{
		TenantID:    tenantID,
		UserID:      userID,
		Type:        typ,
		Title:       title,
		Content:     content,
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("写入通知失败", zap.String("type", typ), zap.Error(err))
	}
}

func toBookingResponse(b *model.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:          b.BookingID,
		CourseID:    b.CourseID,
		Status:      b.Status,
		BookingDate: b.BookingDate.Format(timeLayout),
		CheckedIn:   b.CheckedIn,
		Notes:       b.Notes,
	}
	if b.CheckInTime != nil {
		t := b.CheckInTime.Format(timeLayout)
		resp.CheckInTime = &t
	}
	if b.Member != nil {
		resp.Member = &dto.MemberBrief{ID: b.Member.MemberID, Name: b.Member.Name, Phone: b.Member.Phone}
	}
	return resp
}
