package dto

// ── 预约模块 DTO ──

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	MemberID string `json:"member_id" binding:"required,uuid"`
	Notes    string `json:"notes"     binding:"omitempty,max=500"`
}

// BookingListRequest 预约列表查询参数
type BookingListRequest struct {
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
	MemberID string `form:"member_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,oneof=pending confirmed cancelled completed no_show"`
	PaginationRequest
}

// BookingResponse 预约响应
type BookingResponse struct {
	ID          string       `json:"id"`
	CourseID    string       `json:"course_id"`
	Member      *MemberBrief `json:"member,omitempty"`
	Status      string       `json:"status"`
	BookingDate string       `json:"booking_date"`
	CheckedIn   bool         `json:"checked_in"`
	CheckInTime *string      `json:"check_in_time,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// BookingActionResponse 预约操作响应（取消/确认/缺席/完成）
// Message 为面向前台的可读结果说明
type BookingActionResponse struct {
	Booking *BookingResponse `json:"booking"`
	Message string           `json:"message"`
}
