package dto

// ── 前台看板统计 DTO ──

// TodayStatsResponse 当日看板统计（实时投影，不落库）
type TodayStatsResponse struct {
	Date             string `json:"date"`
	TodayCheckIns    int64  `json:"today_check_ins"`   // 当日签到次数（含散客）
	CurrentlyPresent int64  `json:"currently_present"` // 当前在场人数
	OngoingCourses   int64  `json:"ongoing_courses"`   // 进行中课程数
}
