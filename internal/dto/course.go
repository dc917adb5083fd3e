package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	CourseTypeID    string `json:"course_type_id"   binding:"required,uuid"`
	CoachID         string `json:"coach_id"         binding:"required,uuid"`
	RoomID          string `json:"room_id"          binding:"required,uuid"`
	Date            string `json:"date"             binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time"       binding:"required,datetime=15:04"`
	EndTime         string `json:"end_time"         binding:"required,datetime=15:04"`
	MaxParticipants *int   `json:"max_participants" binding:"omitempty,min=1"` // 缺省取课程类型默认值
	Description     string `json:"description"      binding:"omitempty,max=500"`
}

// UpdateCourseRequest 编辑课程请求
type UpdateCourseRequest struct {
	CoachID         *string `json:"coach_id"         binding:"omitempty,uuid"`
	RoomID          *string `json:"room_id"          binding:"omitempty,uuid"`
	Date            *string `json:"date"             binding:"omitempty,datetime=2006-01-02"`
	StartTime       *string `json:"start_time"       binding:"omitempty,datetime=15:04"`
	EndTime         *string `json:"end_time"         binding:"omitempty,datetime=15:04"`
	MaxParticipants *int    `json:"max_participants" binding:"omitempty,min=1"`
	Description     *string `json:"description"      binding:"omitempty,max=500"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status"    binding:"omitempty,oneof=scheduled ongoing completed cancelled"`
	CoachID  string `form:"coach_id"  binding:"omitempty,uuid"`
	RoomID   string `form:"room_id"   binding:"omitempty,uuid"`
	PaginationRequest
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID              string           `json:"id"`
	CourseType      *CourseTypeBrief `json:"course_type,omitempty"`
	Coach           *CoachBrief      `json:"coach,omitempty"`
	Room            *RoomBrief       `json:"room,omitempty"`
	Date            string           `json:"date"`
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
	MaxParticipants int              `json:"max_participants"`
	Status          string           `json:"status"`
	Description     string           `json:"description,omitempty"`
	ActiveBookings  int64            `json:"active_bookings"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

// CreateCourseResponse 创建课程响应（含软校验警告）
type CreateCourseResponse struct {
	Course   *CourseResponse `json:"course"`
	Warnings []string        `json:"warnings,omitempty"`
}

// CancelCourseResponse 取消课程响应
// cancelled_bookings 报告级联取消的预约数，供调用方通知会员
type CancelCourseResponse struct {
	Course            *CourseResponse `json:"course"`
	CancelledBookings int64           `json:"cancelled_bookings"`
	Message           string          `json:"message"`
}
