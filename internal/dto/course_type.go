package dto

// ── 课程类型模块 DTO ──

// CreateCourseTypeRequest 创建课程类型请求
type CreateCourseTypeRequest struct {
	Name                   string   `json:"name"                     binding:"required,min=1,max=100"`
	DurationMinutes        int      `json:"duration_minutes"         binding:"required,min=1,max=480"`
	DefaultMaxParticipants int      `json:"default_max_participants" binding:"required,min=1"`
	PriceCents             int      `json:"price_cents"              binding:"omitempty,min=0"`
	Equipment              []string `json:"equipment"                binding:"omitempty,dive,max=100"`
}

// UpdateCourseTypeRequest 编辑课程类型请求（显式版本化编辑）
type UpdateCourseTypeRequest struct {
	Name                   *string  `json:"name"                     binding:"omitempty,min=1,max=100"`
	DurationMinutes        *int     `json:"duration_minutes"         binding:"omitempty,min=1,max=480"`
	DefaultMaxParticipants *int     `json:"default_max_participants" binding:"omitempty,min=1"`
	PriceCents             *int     `json:"price_cents"              binding:"omitempty,min=0"`
	Equipment              []string `json:"equipment"                binding:"omitempty,dive,max=100"`
	IsActive               *bool    `json:"is_active"`
}

// CourseTypeResponse 课程类型响应
type CourseTypeResponse struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	DurationMinutes        int      `json:"duration_minutes"`
	DefaultMaxParticipants int      `json:"default_max_participants"`
	PriceCents             int      `json:"price_cents"`
	Equipment              []string `json:"equipment"`
	IsActive               bool     `json:"is_active"`
	CreatedAt              string   `json:"created_at"`
	UpdatedAt              string   `json:"updated_at"`
}
