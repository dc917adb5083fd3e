package dto

// ── 训练计划投影 DTO ──
// 计划的期次日期是派生读模型，由计划定义计算，不写入课程/预约状态机

// ProgramSessionsRequest 计划期次预览请求
type ProgramSessionsRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	Weeks     int    `json:"weeks"      binding:"required,min=1,max=52"`
	Slots     []ProgramSlot `json:"slots" binding:"required,min=1,dive"`
}

// ProgramSlot 计划内每周重复的时段
type ProgramSlot struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"` // 1=周一 … 7=周日
	StartTime string `json:"start_time"  binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"    binding:"required,datetime=15:04"`
}

// ProgramSessionResponse 单个派生期次
type ProgramSessionResponse struct {
	Week      int    `json:"week"` // 1 起
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
