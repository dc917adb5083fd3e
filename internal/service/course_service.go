package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymtrack/backend/internal/dto"
	"gymtrack/backend/internal/model"
	"gymtrack/backend/internal/repository"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// CourseService 课程调度业务接口
// 排课不变量（时间窗合法、教练/教室无重叠、容量不超教室）全部在本层校验
type CourseService interface {
	Create(ctx context.Context, tenantID string, req *dto.CreateCourseRequest, callerID string) (*dto.CreateCourseResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, tenantID string, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Update(ctx context.Context, tenantID, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	// Cancel 幂等取消课程并级联取消全部活跃预约
	Cancel(ctx context.Context, tenantID, id, callerID string) (*dto.CancelCourseResponse, error)
	// Delete 仅允许删除 scheduled/cancelled 课程，连同其预约一并移除
	Delete(ctx context.Context, tenantID, id, callerID string) error
	// Complete 人工结课；已结课幂等返回
	Complete(ctx context.Context, tenantID, id, callerID string) (*dto.CourseResponse, error)
	// ICalFeed 导出日期范围内的课程表为 iCalendar 文本
	ICalFeed(ctx context.Context, tenantID string, from, to time.Time) (string, error)
	// ProgramSessions 训练计划期次投影（纯计算，不落库）
	ProgramSessions(req *dto.ProgramSessionsRequest) ([]dto.ProgramSessionResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger, now: time.Now}
}

func (s *courseService) Create(ctx context.Context, tenantID string, req *dto.CreateCourseRequest, callerID string) (*dto.CreateCourseResponse, error) {
	if req.StartTime >= req.EndTime {
		return nil, pkgerrors.Validation("start_time", "开始时间必须早于结束时间")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, pkgerrors.Validation("date", "日期格式不正确")
	}

	ct, err := s.repo.CourseType.GetByID(ctx, tenantID, req.CourseTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程类型", req.CourseTypeID)
		}
		return nil, err
	}
	if !ct.IsActive {
		return nil, pkgerrors.State("课程类型", ct.CourseTypeID, "课程类型已停用，不可用于新排课")
	}

	coach, err := s.repo.Coach.GetByID(ctx, tenantID, req.CoachID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("教练", req.CoachID)
		}
		return nil, err
	}
	if !coach.IsActive {
		return nil, pkgerrors.State("教练", coach.CoachID, "教练已停用，不可排课")
	}

	room, err := s.repo.Room.GetByID(ctx, tenantID, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("教室", req.RoomID)
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, pkgerrors.State("教室", room.RoomID, "教室已停用，不可排课")
	}

	maxParticipants := ct.DefaultMaxParticipants
	if req.MaxParticipants != nil {
		maxParticipants = *req.MaxParticipants
	}
	if maxParticipants > room.Capacity {
		return nil, pkgerrors.Capacity("课程", "",
			fmt.Sprintf("课程人数上限 %d 超过教室容量 %d", maxParticipants, room.Capacity))
	}

	if err := s.checkOverlap(ctx, tenantID, date, req.StartTime, req.EndTime, req.CoachID, req.RoomID, ""); err != nil {
		return nil, err
	}

	// 软校验：时长与课程类型不一致仅告警，不拒绝
	var warnings []string
	if minutes := windowMinutes(req.StartTime, req.EndTime); minutes != ct.DurationMinutes {
		w := fmt.Sprintf("课程时长 %d 分钟与课程类型默认时长 %d 分钟不一致", minutes, ct.DurationMinutes)
		warnings = append(warnings, w)
		s.logger.Warn("课程时长与类型默认值不一致",
			zap.String("course_type_id", ct.CourseTypeID),
			zap.Int("minutes", minutes),
			zap.Int("default_minutes", ct.DurationMinutes))
	}

	course := &model.Course{
		TenantID:        tenantID,
		CourseTypeID:    req.CourseTypeID,
		CoachID:         req.CoachID,
		RoomID:          req.RoomID,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: maxParticipants,
		Status:          model.CourseStatusScheduled,
		Description:     req.Description,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	course.CourseType = ct
	course.Coach = coach
	course.Room = room

	s.logger.Info("课程创建成功",
		zap.String("course_id", course.CourseID),
		zap.String("date", req.Date),
		zap.String("coach_id", req.CoachID))

	return &dto.CreateCourseResponse{
		Course:   toCourseResponse(course, 0),
		Warnings: warnings,
	}, nil
}

func (s *courseService) GetByID(ctx context.Context, tenantID, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程", id)
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	active, err := s.repo.Booking.CountActiveByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course, active), nil
}

func (s *courseService) List(ctx context.Context, tenantID string, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filter := repository.CourseFilter{
		Status:  req.Status,
		CoachID: req.CoachID,
		RoomID:  req.RoomID,
	}
	if req.DateFrom != "" {
		from, _ := time.Parse(dateLayout, req.DateFrom)
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, _ := time.Parse(dateLayout, req.DateTo)
		filter.DateTo = &to
	}

	courses, total, err := s.repo.Course.List(ctx, tenantID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		active, err := s.repo.Booking.CountActiveByCourse(ctx, courses[i].CourseID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *toCourseResponse(&courses[i], active))
	}
	return result, total, nil
}

func (s *courseService) Update(ctx context.Context, tenantID, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程", id)
		}
		return nil, err
	}
	if course.Status != model.CourseStatusScheduled {
		return nil, pkgerrors.State("课程", id, "仅可编辑未开始的课程")
	}

	if req.CoachID != nil {
		coach, err := s.repo.Coach.GetByID(ctx, tenantID, *req.CoachID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NotFound("教练", *req.CoachID)
			}
			return nil, err
		}
		if !coach.IsActive {
			return nil, pkgerrors.State("教练", coach.CoachID, "教练已停用，不可排课")
		}
		course.CoachID = *req.CoachID
		course.Coach = coach
	}
	if req.RoomID != nil {
		room, err := s.repo.Room.GetByID(ctx, tenantID, *req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.NotFound("教室", *req.RoomID)
			}
			return nil, err
		}
		if !room.IsActive {
			return nil, pkgerrors.State("教室", room.RoomID, "教室已停用，不可排课")
		}
		course.RoomID = *req.RoomID
		course.Room = room
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, pkgerrors.Validation("date", "日期格式不正确")
		}
		course.Date = date
	}
	if req.StartTime != nil {
		course.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		course.EndTime = *req.EndTime
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if course.StartTime >= course.EndTime {
		return nil, pkgerrors.Validation("start_time", "开始时间必须早于结束时间")
	}

	active, err := s.repo.Booking.CountActiveByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.MaxParticipants != nil {
		if int64(*req.MaxParticipants) < active {
			return nil, pkgerrors.Capacity("课程", id,
				fmt.Sprintf("人数上限不可低于当前活跃预约数 %d", active))
		}
		course.MaxParticipants = *req.MaxParticipants
	}
	if course.Room != nil && course.MaxParticipants > course.Room.Capacity {
		return nil, pkgerrors.Capacity("课程", id,
			fmt.Sprintf("课程人数上限 %d 超过教室容量 %d", course.MaxParticipants, course.Room.Capacity))
	}

	// 重新校验重叠，排除自身
	if err := s.checkOverlap(ctx, tenantID, course.Date, course.StartTime, course.EndTime,
		course.CoachID, course.RoomID, course.CourseID); err != nil {
		return nil, err
	}

	course.UpdatedBy = &callerID
	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course, active), nil
}

func (s *courseService) Cancel(ctx context.Context, tenantID, id, callerID string) (*dto.CancelCourseResponse, error) {
	course, cancelled, err := s.repo.Course.CancelCascade(ctx, tenantID, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程", id)
		}
		return nil, err
	}

	// 通知为读模型副作用，失败不回滚取消结果
	if len(cancelled) > 0 {
		ns := make([]model.Notification, 0, len(cancelled))
		relatedType := "course"
		for i := range cancelled {
			relatedID := course.CourseID
			ns = append(ns, model.Notification{
				TenantID:    tenantID,
				UserID:      cancelled[i].MemberID,
				Type:        model.NotificationCourseCancelled,
				Title:       "课程已取消",
				Content:     fmt.Sprintf("您预约的 %s 课程已取消，预约随之取消", course.Date.Format(dateLayout)),
				RelatedType: &relatedType,
				RelatedID:   &relatedID,
			})
		}
		if err := s.repo.Notification.BatchCreate(ctx, ns); err != nil {
			s.logger.Error("写入课程取消通知失败", zap.String("course_id", id), zap.Error(err))
		}
	}

	s.logger.Info("课程已取消",
		zap.String("course_id", id),
		zap.Int("cancelled_bookings", len(cancelled)))

	return &dto.CancelCourseResponse{
		Course:            toCourseResponse(course, 0),
		CancelledBookings: int64(len(cancelled)),
		Message:           fmt.Sprintf("课程已取消，级联取消 %d 条预约", len(cancelled)),
	}, nil
}

func (s *courseService) Delete(ctx context.Context, tenantID, id, callerID string) error {
	if err := s.repo.Course.DeleteWithBookings(ctx, tenantID, id, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("课程", id)
		}
		return err
	}
	s.logger.Info("课程已删除", zap.String("course_id", id))
	return nil
}

func (s *courseService) Complete(ctx context.Context, tenantID, id, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("课程", id)
		}
		return nil, err
	}
	switch course.Status {
	case model.CourseStatusCancelled:
		return nil, pkgerrors.State("课程", id, "已取消的课程不可结课")
	case model.CourseStatusCompleted:
		return toCourseResponse(course, 0), nil // 幂等
	}
	if s.now().Before(course.StartAt()) {
		return nil, pkgerrors.State("课程", id, "课程尚未开始，不可结课")
	}

	course.Status = model.CourseStatusCompleted
	course.UpdatedBy = &callerID
	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}
	return toCourseResponse(course, 0), nil
}

func (s *courseService) ICalFeed(ctx context.Context, tenantID string, from, to time.Time) (string, error) {
	courses, err := s.repo.Course.ListByDateRange(ctx, tenantID, from, to)
	if err != nil {
		s.logger.Error("导出课程表失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//GymTrack//课程表//CN")

	now := s.now()
	for i := range courses {
		c := &courses[i]
		ev := cal.AddEvent(fmt.Sprintf("%s@gymtrack", c.CourseID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(c.StartAt())
		ev.SetEndAt(c.EndAt())
		summary := "课程"
		if c.CourseType != nil {
			summary = c.CourseType.Name
		}
		if c.Coach != nil {
			summary = fmt.Sprintf("%s（%s）", summary, c.Coach.Name)
		}
		ev.SetSummary(summary)
		if c.Room != nil {
			ev.SetLocation(c.Room.Name)
		}
		if c.Description != "" {
			ev.SetDescription(c.Description)
		}
	}
	return cal.Serialize(), nil
}

func (s *courseService) ProgramSessions(req *dto.ProgramSessionsRequest) ([]dto.ProgramSessionResponse, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, pkgerrors.Validation("start_date", "日期格式不正确")
	}
	for _, slot := range req.Slots {
		if slot.StartTime >= slot.EndTime {
			return nil, pkgerrors.Validation("slots", "时段开始时间必须早于结束时间")
		}
	}

	// 第 1 周从 start_date 所在周起算；时段落在 start_date 之前的顺延到下周同日
	sessions := make([]dto.ProgramSessionResponse, 0, req.Weeks*len(req.Slots))
	startWeekday := isoWeekday(start)
	for week := 1; week <= req.Weeks; week++ {
		for _, slot := range req.Slots {
			offset := (slot.DayOfWeek - startWeekday + 7) % 7
			date := start.AddDate(0, 0, offset+(week-1)*7)
			sessions = append(sessions, dto.ProgramSessionResponse{
				Week:      week,
				Date:      date.Format(dateLayout),
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
	}
	return sessions, nil
}

// checkOverlap 同日、时间窗相交、共享教练或教室即为冲突
func (s *courseService) checkOverlap(ctx context.Context, tenantID string, date time.Time, startTime, endTime, coachID, roomID, excludeID string) error {
	conflicts, err := s.repo.Course.ListOverlapping(ctx, tenantID, date, startTime, endTime, coachID, roomID, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}
	c := &conflicts[0]
	entity := "教室"
	if c.CoachID == coachID {
		entity = "教练"
	}
	return pkgerrors.Conflict(entity, c.CourseID,
		fmt.Sprintf("与 %s %s-%s 的课程时间重叠", c.Date.Format(dateLayout), c.StartTime, c.EndTime))
}

// windowMinutes 计算 HH:MM 时间窗的分钟数
func windowMinutes(start, end string) int {
	st, err1 := time.Parse("15:04", start)
	et, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(et.Sub(st).Minutes())
}

// isoWeekday 周一=1 … 周日=7
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func toCourseResponse(c *model.Course, activeBookings int64) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:              c.CourseID,
		Date:            c.Date.Format(dateLayout),
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		MaxParticipants: c.MaxParticipants,
		Status:          c.Status,
		Description:     c.Description,
		ActiveBookings:  activeBookings,
		CreatedAt:       c.CreatedAt.Format(timeLayout),
		UpdatedAt:       c.UpdatedAt.Format(timeLayout),
	}
	if c.CourseType != nil {
		resp.CourseType = &dto.CourseTypeBrief{
			ID:              c.CourseType.CourseTypeID,
			Name:            c.CourseType.Name,
			DurationMinutes: c.CourseType.DurationMinutes,
		}
	}
	if c.Coach != nil {
		resp.Coach = &dto.CoachBrief{ID: c.Coach.CoachID, Name: c.Coach.Name}
	}
	if c.Room != nil {
		resp.Room = &dto.RoomBrief{ID: c.Room.RoomID, Name: c.Room.Name, Capacity: c.Room.Capacity}
	}
	return resp
}
