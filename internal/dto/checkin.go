package dto

// ── 签到模块 DTO ──

// CheckInRequest 预约签到请求
type CheckInRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Timestamp string `json:"timestamp"  binding:"omitempty"` // RFC3339，缺省为服务端当前时间
}

// QuickCheckInRequest 前台快捷签到请求
// 按会员+课程定位当日 confirmed 预约后委托给 CheckIn
type QuickCheckInRequest struct {
	MemberID string `json:"member_id" binding:"required,uuid"`
	CourseID string `json:"course_id" binding:"required,uuid"`
}

// ManualCheckInRequest 散客到场登记请求（无预约）
type ManualCheckInRequest struct {
	MemberID string `json:"member_id" binding:"required,uuid"`
	Notes    string `json:"notes"     binding:"omitempty,max=500"`
}

// CheckInResponse 签到响应
type CheckInResponse struct {
	Booking *BookingResponse `json:"booking"`
	Message string           `json:"message"`
}

// AttendanceResponse 散客到场记录响应
type AttendanceResponse struct {
	ID          string       `json:"id"`
	Member      *MemberBrief `json:"member,omitempty"`
	CheckInTime string       `json:"check_in_time"`
	Source      string       `json:"source"`
	Notes       string       `json:"notes,omitempty"`
}
