package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymtrack/backend/internal/model"
	"gymtrack/backend/internal/repository"
	pkgerrors "gymtrack/backend/pkg/errors"
)

// ── 内存版仓储，供 service 层单元测试使用 ──
// 单把互斥锁模拟数据库事务的串行化语义，
// CreateReserved 的「检查容量 + 写入」必须在同一临界区内完成

type memStore struct {
	mu            sync.Mutex
	courseTypes   map[string]*model.CourseType
	rooms         map[string]*model.Room
	coaches       map[string]*model.Coach
	members       map[string]*model.Member
	courses       map[string]*model.Course
	bookings      map[string]*model.Booking
	attendance    []model.AttendanceRecord
	notifications []model.Notification
	config        map[string]*model.SystemConfig
}

func newMemStore() *memStore {
	return &memStore{
		courseTypes: make(map[string]*model.CourseType),
		rooms:       make(map[string]*model.Room),
		coaches:     make(map[string]*model.Coach),
		members:     make(map[string]*model.Member),
		courses:     make(map[string]*model.Course),
		bookings:    make(map[string]*model.Booking),
		config:      make(map[string]*model.SystemConfig),
	}
}

func newTestRepo(s *memStore) *repository.Repository {
	return &repository.Repository{
		CourseType:   &memCourseTypeRepo{s: s},
		Room:         &memRoomRepo{s: s},
		Coach:        &memCoachRepo{s: s},
		Member:       &memMemberRepo{s: s},
		Course:       &memCourseRepo{s: s},
		Booking:      &memBookingRepo{s: s},
		Attendance:   &memAttendanceRepo{s: s},
		Notification: &memNotificationRepo{s: s},
		SystemConfig: &memSystemConfigRepo{s: s},
	}
}

// ── 课程类型 ──

type memCourseTypeRepo struct{ s *memStore }

func (r *memCourseTypeRepo) Create(_ context.Context, ct *model.CourseType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ct.CourseTypeID == "" {
		ct.CourseTypeID = uuid.NewString()
	}
	cp := *ct
	r.s.courseTypes[ct.CourseTypeID] = &cp
	return nil
}

func (r *memCourseTypeRepo) GetByID(_ context.Context, tenantID, id string) (*model.CourseType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ct, ok := r.s.courseTypes[id]
	if !ok || ct.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ct
	return &cp, nil
}

func (r *memCourseTypeRepo) List(_ context.Context, tenantID string, includeInactive bool) ([]model.CourseType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CourseType
	for _, ct := range r.s.courseTypes {
		if ct.TenantID != tenantID {
			continue
		}
		if !includeInactive && !ct.IsActive {
			continue
		}
		out = append(out, *ct)
	}
	return out, nil
}

func (r *memCourseTypeRepo) Update(_ context.Context, ct *model.CourseType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courseTypes[ct.CourseTypeID]
	if !ok || cur.Version != ct.Version {
		return pkgerrors.ErrOptimisticLock
	}
	ct.Version++
	cp := *ct
	r.s.courseTypes[ct.CourseTypeID] = &cp
	return nil
}

// ── 教室 ──

type memRoomRepo struct{ s *memStore }

func (r *memRoomRepo) Create(_ context.Context, room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if room.RoomID == "" {
		room.RoomID = uuid.NewString()
	}
	cp := *room
	r.s.rooms[room.RoomID] = &cp
	return nil
}

func (r *memRoomRepo) GetByID(_ context.Context, tenantID, id string) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok || room.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *room
	return &cp, nil
}

func (r *memRoomRepo) List(_ context.Context, tenantID string, includeInactive bool) ([]model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Room
	for _, room := range r.s.rooms {
		if room.TenantID != tenantID {
			continue
		}
		if !includeInactive && !room.IsActive {
			continue
		}
		out = append(out, *room)
	}
	return out, nil
}

func (r *memRoomRepo) Update(_ context.Context, room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.rooms[room.RoomID]
	if !ok || cur.Version != room.Version {
		return pkgerrors.ErrOptimisticLock
	}
	room.Version++
	cp := *room
	r.s.rooms[room.RoomID] = &cp
	return nil
}

// ── 教练 / 会员（外部目录投影，测试中只读） ──

type memCoachRepo struct{ s *memStore }

func (r *memCoachRepo) GetByID(_ context.Context, tenantID, id string) (*model.Coach, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coaches[id]
	if !ok || c.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCoachRepo) List(_ context.Context, tenantID string) ([]model.Coach, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Coach
	for _, c := range r.s.coaches {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memMemberRepo struct{ s *memStore }

func (r *memMemberRepo) GetByID(_ context.Context, tenantID, id string) (*model.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok || m.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

// ── 课程 ──

type memCourseRepo struct{ s *memStore }

func (r *memCourseRepo) Create(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if course.CourseID == "" {
		course.CourseID = uuid.NewString()
	}
	if course.Version == 0 {
		course.Version = 1
	}
	cp := *course
	r.s.courses[course.CourseID] = &cp
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, tenantID, id string) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || c.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCourseRepo) List(_ context.Context, tenantID string, filter repository.CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Course
	for _, c := range r.s.courses {
		if c.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.CoachID != "" && c.CoachID != filter.CoachID {
			continue
		}
		if filter.RoomID != "" && c.RoomID != filter.RoomID {
			continue
		}
		if filter.DateFrom != nil && c.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && c.Date.After(*filter.DateTo) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memCourseRepo) ListByDateRange(_ context.Context, tenantID string, from, to time.Time) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Course
	for _, c := range r.s.courses {
		if c.TenantID != tenantID || c.Status == model.CourseStatusCancelled {
			continue
		}
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *memCourseRepo) Update(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.courses[course.CourseID]
	if !ok || cur.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version++
	cp := *course
	r.s.courses[course.CourseID] = &cp
	return nil
}

func (r *memCourseRepo) ListOverlapping(_ context.Context, tenantID string, date time.Time, startTime, endTime, coachID, roomID, excludeID string) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Course
	for _, c := range r.s.courses {
		if c.TenantID != tenantID || c.CourseID == excludeID {
			continue
		}
		if c.Status == model.CourseStatusCancelled {
			continue
		}
		if !c.Date.Equal(date) {
			continue
		}
		if c.CoachID != coachID && c.RoomID != roomID {
			continue
		}
		if c.StartTime < endTime && startTime < c.EndTime {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCourseRepo) CancelCascade(_ context.Context, tenantID, id, callerID string) (*model.Course, []model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil, gorm.ErrRecordNotFound
	}
	if c.Status == model.CourseStatusCancelled {
		cp := *c
		return &cp, nil, nil
	}
	if c.Status == model.CourseStatusCompleted {
		return nil, nil, pkgerrors.State("课程", id, "已结束的课程不可取消")
	}

	c.Status = model.CourseStatusCancelled
	c.UpdatedBy = &callerID
	c.Version++

	var cancelled []model.Booking
	for _, b := range r.s.bookings {
		if b.CourseID != id || !b.IsActive() {
			continue
		}
		if b.CheckedIn {
			b.Status = model.BookingStatusCompleted
			b.UpdatedBy = &callerID
			b.Version++
			continue
		}
		b.Status = model.BookingStatusCancelled
		b.UpdatedBy = &callerID
		b.Version++
		cancelled = append(cancelled, *b)
	}
	cp := *c
	return &cp, cancelled, nil
}

func (r *memCourseRepo) DeleteWithBookings(_ context.Context, tenantID, id, callerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok || c.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	if c.Status != model.CourseStatusScheduled && c.Status != model.CourseStatusCancelled {
		return pkgerrors.State("课程", id, "仅可删除未开始或已取消的课程")
	}
	for bid, b := range r.s.bookings {
		if b.CourseID == id {
			delete(r.s.bookings, bid)
		}
	}
	delete(r.s.courses, id)
	return nil
}

func (r *memCourseRepo) CountOngoing(_ context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.courses {
		if c.TenantID != tenantID || c.Status == model.CourseStatusCancelled {
			continue
		}
		if c.Date.Equal(date) && c.StartTime <= nowHHMM && nowHHMM < c.EndTime {
			n++
		}
	}
	return n, nil
}

// ── 预约 ──

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) CreateReserved(_ context.Context, booking *model.Booking) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	course, ok := r.s.courses[booking.CourseID]
	if !ok || course.TenantID != booking.TenantID {
		return false, pkgerrors.NotFound("课程", booking.CourseID)
	}
	if course.Status != model.CourseStatusScheduled {
		return false, pkgerrors.State("课程", course.CourseID, "课程当前状态不可预约")
	}

	var active int64
	for _, b := range r.s.bookings {
		if b.CourseID != booking.CourseID || !b.IsActive() {
			continue
		}
		if b.MemberID == booking.MemberID {
			return false, pkgerrors.Duplicate("预约", booking.CourseID, "该会员已持有此课程的活跃预约")
		}
		active++
	}
	if active >= int64(course.MaxParticipants) {
		return false, pkgerrors.Capacity("课程", course.CourseID, "课程名额已满")
	}

	if booking.BookingID == "" {
		booking.BookingID = uuid.NewString()
	}
	if booking.BookingDate.IsZero() {
		booking.BookingDate = time.Now()
	}
	cp := *booking
	r.s.bookings[booking.BookingID] = &cp
	return active+1 >= int64(course.MaxParticipants), nil
}

func (r *memBookingRepo) GetByID(_ context.Context, tenantID, id string) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) listFiltered(tenantID string, match func(*model.Booking) bool, status string, offset, limit int) ([]model.Booking, int64) {
	var out []model.Booking
	for _, b := range r.s.bookings {
		if b.TenantID != tenantID || !match(b) {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].BookingID < out[j].BookingID
	})
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total
}

func (r *memBookingRepo) ListByCourse(_ context.Context, tenantID, courseID, status string, offset, limit int) ([]model.Booking, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out, total := r.listFiltered(tenantID, func(b *model.Booking) bool { return b.CourseID == courseID }, status, offset, limit)
	return out, total, nil
}

func (r *memBookingRepo) ListByMember(_ context.Context, tenantID, memberID, status string, offset, limit int) ([]model.Booking, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out, total := r.listFiltered(tenantID, func(b *model.Booking) bool { return b.MemberID == memberID }, status, offset, limit)
	return out, total, nil
}

func (r *memBookingRepo) FindActiveByMemberAndCourse(_ context.Context, tenantID, memberID, courseID string) (*model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.TenantID == tenantID && b.MemberID == memberID && b.CourseID == courseID && b.IsActive() {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memBookingRepo) CountActiveByCourse(_ context.Context, courseID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if b.CourseID == courseID && b.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, booking *model.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.bookings[booking.BookingID]
	if !ok || cur.Version != booking.Version {
		return pkgerrors.ErrOptimisticLock
	}
	booking.Version++
	cp := *booking
	r.s.bookings[booking.BookingID] = &cp
	return nil
}

func (r *memBookingRepo) SetCheckedIn(_ context.Context, tenantID, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	if b.CheckedIn || b.Status != model.BookingStatusConfirmed {
		return pkgerrors.State("预约", id, "预约当前状态不可签到")
	}
	b.CheckedIn = true
	t := at
	b.CheckInTime = &t
	b.Version++
	return nil
}

func (r *memBookingRepo) CountCheckedInBetween(_ context.Context, tenantID string, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if b.TenantID != tenantID || !b.CheckedIn || b.CheckInTime == nil {
			continue
		}
		if !b.CheckInTime.Before(from) && b.CheckInTime.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *memBookingRepo) CountPresentNow(_ context.Context, tenantID string, date time.Time, nowHHMM string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if b.TenantID != tenantID || !b.CheckedIn {
			continue
		}
		c, ok := r.s.courses[b.CourseID]
		if !ok {
			continue
		}
		if c.Date.Equal(date) && c.StartTime <= nowHHMM && nowHHMM < c.EndTime {
			n++
		}
	}
	return n, nil
}

// ── 到场记录 / 通知 / 系统配置 ──

type memAttendanceRepo struct{ s *memStore }

func (r *memAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if record.AttendanceID == "" {
		record.AttendanceID = uuid.NewString()
	}
	r.s.attendance = append(r.s.attendance, *record)
	return nil
}

func (r *memAttendanceRepo) ListBetween(_ context.Context, tenantID string, from, to time.Time) ([]model.AttendanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range r.s.attendance {
		if rec.TenantID == tenantID && !rec.CheckInTime.Before(from) && rec.CheckInTime.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) CountBetween(ctx context.Context, tenantID string, from, to time.Time) (int64, error) {
	out, err := r.ListBetween(ctx, tenantID, from, to)
	return int64(len(out)), err
}

type memNotificationRepo struct{ s *memStore }

func (r *memNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *memNotificationRepo) BatchCreate(ctx context.Context, ns []model.Notification) error {
	for i := range ns {
		if err := r.Create(ctx, &ns[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, tenantID, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Notification
	for _, n := range r.s.notifications {
		if n.TenantID != tenantID || n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, tenantID, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.NotificationID == id && n.TenantID == tenantID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memSystemConfigRepo struct{ s *memStore }

func (r *memSystemConfigRepo) Get(_ context.Context, tenantID string) (*model.SystemConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cfg, ok := r.s.config[tenantID]; ok {
		cp := *cfg
		return &cp, nil
	}
	return &model.SystemConfig{
		TenantID:            tenantID,
		CheckInGraceMinutes: 15,
		AutoConfirmBookings: true,
	}, nil
}

func (r *memSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *cfg
	r.s.config[cfg.TenantID] = &cp
	return nil
}
