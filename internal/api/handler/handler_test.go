package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gymtrack/backend/internal/dto"
	pkgerrors "gymtrack/backend/pkg/errors"
	"gymtrack/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CourseService ──

type mockCourseService struct {
	createResult   *dto.CreateCourseResponse
	createErr      error
	getResult      *dto.CourseResponse
	getErr         error
	listResult     []dto.CourseResponse
	listTotal      int64
	listErr        error
	updateResult   *dto.CourseResponse
	updateErr      error
	cancelResult   *dto.CancelCourseResponse
	cancelErr      error
	deleteErr      error
	completeResult *dto.CourseResponse
	completeErr    error
	icalResult     string
	icalErr        error
	sessionsResult []dto.ProgramSessionResponse
	sessionsErr    error
}

func (m *mockCourseService) Create(_ context.Context, _ string, _ *dto.CreateCourseRequest, _ string) (*dto.CreateCourseResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCourseService) GetByID(_ context.Context, _, _ string) (*dto.CourseResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCourseService) List(_ context.Context, _ string, _ *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCourseService) Update(_ context.Context, _, _ string, _ *dto.UpdateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCourseService) Cancel(_ context.Context, _, _, _ string) (*dto.CancelCourseResponse, error) {
	return m.cancelResult, m.cancelErr
}
func (m *mockCourseService) Delete(_ context.Context, _, _, _ string) error {
	return m.deleteErr
}
func (m *mockCourseService) Complete(_ context.Context, _, _, _ string) (*dto.CourseResponse, error) {
	return m.completeResult, m.completeErr
}
func (m *mockCourseService) ICalFeed(_ context.Context, _ string, _, _ time.Time) (string, error) {
	return m.icalResult, m.icalErr
}
func (m *mockCourseService) ProgramSessions(_ *dto.ProgramSessionsRequest) ([]dto.ProgramSessionResponse, error) {
	return m.sessionsResult, m.sessionsErr
}

// ── Mock BookingService ──

type mockBookingService struct {
	createResult *dto.BookingActionResponse
	createErr    error
	getResult    *dto.BookingResponse
	getErr       error
	listResult   []dto.BookingResponse
	listTotal    int64
	listErr      error
	actionResult *dto.BookingActionResponse
	actionErr    error
}

func (m *mockBookingService) Create(_ context.Context, _ string, _ *dto.CreateBookingRequest, _ string) (*dto.BookingActionResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockBookingService) GetByID(_ context.Context, _, _ string) (*dto.BookingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockBookingService) List(_ context.Context, _ string, _ *dto.BookingListRequest) ([]dto.BookingResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockBookingService) Confirm(_ context.Context, _, _, _ string) (*dto.BookingActionResponse, error) {
	return m.actionResult, m.actionErr
}
func (m *mockBookingService) Cancel(_ context.Context, _, _, _ string) (*dto.BookingActionResponse, error) {
	return m.actionResult, m.actionErr
}
func (m *mockBookingService) MarkNoShow(_ context.Context, _, _, _ string) (*dto.BookingActionResponse, error) {
	return m.actionResult, m.actionErr
}
func (m *mockBookingService) MarkCompleted(_ context.Context, _, _, _ string) (*dto.BookingActionResponse, error) {
	return m.actionResult, m.actionErr
}

// ── Mock CheckinService ──

type mockCheckinService struct {
	checkinResult *dto.CheckInResponse
	checkinErr    error
	manualResult  *dto.AttendanceResponse
	manualErr     error
}

func (m *mockCheckinService) CheckIn(_ context.Context, _ string, _ *dto.CheckInRequest, _ string) (*dto.CheckInResponse, error) {
	return m.checkinResult, m.checkinErr
}
func (m *mockCheckinService) QuickCheckIn(_ context.Context, _ string, _ *dto.QuickCheckInRequest, _ string) (*dto.CheckInResponse, error) {
	return m.checkinResult, m.checkinErr
}
func (m *mockCheckinService) ManualCheckIn(_ context.Context, _ string, _ *dto.ManualCheckInRequest, _ string) (*dto.AttendanceResponse, error) {
	return m.manualResult, m.manualErr
}

// ── Mock StatsService ──

type mockStatsService struct {
	result *dto.TodayStatsResponse
	err    error
}

func (m *mockStatsService) Today(_ context.Context, _ string) (*dto.TodayStatsResponse, error) {
	return m.result, m.err
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	listResult  []dto.NotificationResponse
	listTotal   int64
	listErr     error
	markReadErr error
}

func (m *mockNotificationService) List(_ context.Context, _, _ string, _ *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockNotificationService) MarkRead(_ context.Context, _, _, _ string) error {
	return m.markReadErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// injectAuth 模拟 JWT 中间件注入的上下文
func injectAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", "staff")
		c.Set("tenant_id", "test-tenant-id")
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_Create_Success(t *testing.T) {
	mock := &mockCourseService{
		createResult: &dto.CreateCourseResponse{
			Course: &dto.CourseResponse{ID: "course-1", Status: "scheduled"},
		},
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		CourseTypeID: "11111111-1111-1111-1111-111111111111",
		CoachID:      "22222222-2222-2222-2222-222222222222",
		RoomID:       "33333333-3333-3333-3333-333333333333",
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", injectAuth(), h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestCourseHandler_Create_BadJSON(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", injectAuth(), h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCourseHandler_Create_Unauthenticated(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		CourseTypeID: "11111111-1111-1111-1111-111111111111",
		CoachID:      "22222222-2222-2222-2222-222222222222",
		RoomID:       "33333333-3333-3333-3333-333333333333",
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", h.Create) // 未注入认证上下文
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCourseHandler_Create_Conflict(t *testing.T) {
	mock := &mockCourseService{
		createErr: pkgerrors.Conflict("教练", "c-1", "与已有课程时间重叠"),
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/courses", jsonBody(dto.CreateCourseRequest{
		CourseTypeID: "11111111-1111-1111-1111-111111111111",
		CoachID:      "22222222-2222-2222-2222-222222222222",
		RoomID:       "33333333-3333-3333-3333-333333333333",
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "10:00",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/courses", injectAuth(), h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != courseCodeBase+codeOffsetConflict {
		t.Errorf("expected code %d, got %d", courseCodeBase+codeOffsetConflict, resp.Code)
	}
}

func TestCourseHandler_Get_NotFound(t *testing.T) {
	mock := &mockCourseService{getErr: pkgerrors.NotFound("课程", "missing")}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses/missing", nil)

	r := gin.New()
	r.GET("/courses/:id", injectAuth(), h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCourseHandler_ICalFeed_ContentType(t *testing.T) {
	mock := &mockCourseService{icalResult: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/courses/ical?date_from=2026-03-02&date_to=2026-03-09", nil)

	r := gin.New()
	r.GET("/courses/ical", injectAuth(), h.ICalFeed)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Errorf("unexpected content type %s", ct)
	}
}

func TestCourseHandler_ProgramSessions_Success(t *testing.T) {
	mock := &mockCourseService{
		sessionsResult: []dto.ProgramSessionResponse{
			{Week: 1, Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		},
	}
	h := NewCourseHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/programs/sessions", jsonBody(dto.ProgramSessionsRequest{
		StartDate: "2026-03-02",
		Weeks:     1,
		Slots:     []dto.ProgramSlot{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/programs/sessions", injectAuth(), h.ProgramSessions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BookingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBookingHandler_Create_CapacityFull(t *testing.T) {
	mock := &mockBookingService{
		createErr: pkgerrors.Capacity("课程", "c-1", "课程名额已满"),
	}
	h := NewBookingHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings", jsonBody(dto.CreateBookingRequest{
		CourseID: "11111111-1111-1111-1111-111111111111",
		MemberID: "22222222-2222-2222-2222-222222222222",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", injectAuth(), h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != bookingCodeBase+codeOffsetCapacity {
		t.Errorf("expected code %d, got %d", bookingCodeBase+codeOffsetCapacity, resp.Code)
	}
}

func TestBookingHandler_Create_Duplicate(t *testing.T) {
	mock := &mockBookingService{
		createErr: pkgerrors.Duplicate("预约", "c-1", "该会员已持有此课程的活跃预约"),
	}
	h := NewBookingHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings", jsonBody(dto.CreateBookingRequest{
		CourseID: "11111111-1111-1111-1111-111111111111",
		MemberID: "22222222-2222-2222-2222-222222222222",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", injectAuth(), h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestBookingHandler_Cancel_Success(t *testing.T) {
	mock := &mockBookingService{
		actionResult: &dto.BookingActionResponse{
			Booking: &dto.BookingResponse{ID: "b-1", Status: "cancelled"},
			Message: "预约已取消，名额已释放",
		},
	}
	h := NewBookingHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/bookings/b-1/cancel", nil)

	r := gin.New()
	r.POST("/bookings/:id/cancel", injectAuth(), h.Cancel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CheckinHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCheckinHandler_CheckIn_OutsideWindow(t *testing.T) {
	mock := &mockCheckinService{
		checkinErr: pkgerrors.Window("预约", "b-1", "不在签到窗口内（08:45 ~ 10:00）"),
	}
	h := NewCheckinHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CheckInRequest{
		BookingID: "11111111-1111-1111-1111-111111111111",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", injectAuth(), h.CheckIn)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != checkinCodeBase+codeOffsetWindow {
		t.Errorf("expected code %d, got %d", checkinCodeBase+codeOffsetWindow, resp.Code)
	}
}

func TestCheckinHandler_CheckIn_AlreadyCheckedIn(t *testing.T) {
	mock := &mockCheckinService{
		checkinErr: pkgerrors.State("预约", "b-1", "该预约已签到，请勿重复签到"),
	}
	h := NewCheckinHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CheckInRequest{
		BookingID: "11111111-1111-1111-1111-111111111111",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", injectAuth(), h.CheckIn)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestCheckinHandler_ManualCheckIn_Success(t *testing.T) {
	mock := &mockCheckinService{
		manualResult: &dto.AttendanceResponse{ID: "a-1", Source: "walk_in"},
	}
	h := NewCheckinHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins/manual", jsonBody(dto.ManualCheckInRequest{
		MemberID: "22222222-2222-2222-2222-222222222222",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins/manual", injectAuth(), h.ManualCheckIn)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StatsHandler / NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestStatsHandler_Today_Success(t *testing.T) {
	mock := &mockStatsService{
		result: &dto.TodayStatsResponse{
			Date:             "2026-03-02",
			TodayCheckIns:    12,
			CurrentlyPresent: 5,
			OngoingCourses:   2,
		},
	}
	h := NewStatsHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stats/today", nil)

	r := gin.New()
	r.GET("/stats/today", injectAuth(), h.Today)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestNotificationHandler_List_Success(t *testing.T) {
	mock := &mockNotificationService{
		listResult: []dto.NotificationResponse{{ID: "n-1", Type: "course_full"}},
		listTotal:  1,
	}
	h := NewNotificationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/notifications?page=1&page_size=10", nil)

	r := gin.New()
	r.GET("/notifications", injectAuth(), h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
