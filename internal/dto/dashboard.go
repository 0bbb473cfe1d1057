package dto

// ── 看板模块响应 ──

// QueueSlotResponse 队列视图中的单条面试，时刻为当日 HH:MM
type QueueSlotResponse struct {
	InterviewID string `json:"interview_id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	JobRoleID   string `json:"job_role_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

// PanelQueueResponse 单面板实时队列：上一条 / 当前 / 接下来两条
type PanelQueueResponse struct {
	PanelID  string              `json:"panel_id"`
	Label    string              `json:"label"`
	Previous *QueueSlotResponse  `json:"previous,omitempty"`
	Current  *QueueSlotResponse  `json:"current,omitempty"`
	Next     []QueueSlotResponse `json:"next"`
}

// CompanyQueueResponse 单公司实时队列
type CompanyQueueResponse struct {
	CompanyID  string               `json:"company_id"`
	Name       string               `json:"name"`
	WalkInOpen bool                 `json:"walk_in_open"`
	Panels     []PanelQueueResponse `json:"panels"`
}

// LiveQueueResponse 实时队列响应
type LiveQueueResponse struct {
	RefreshedAt string                 `json:"refreshed_at"`
	Companies   []CompanyQueueResponse `json:"companies"`
}

// PanelSummaryResponse 管理摘要中的面板条目
type PanelSummaryResponse struct {
	PanelID    string `json:"panel_id"`
	Label      string `json:"label"`
	WalkInOpen bool   `json:"walk_in_open"`
}

// CompanySummaryResponse 单公司管理摘要
type CompanySummaryResponse struct {
	CompanyID      string                 `json:"company_id"`
	Name           string                 `json:"name"`
	WalkInOpen     bool                   `json:"walk_in_open"`
	Positions      []string               `json:"positions"`
	Panels         []PanelSummaryResponse `json:"panels"`
	FirstScheduled *string                `json:"first_scheduled,omitempty"`
	LastScheduled  *string                `json:"last_scheduled,omitempty"`
	TotalCount     int                    `json:"total_count"`
	CompletedCount int                    `json:"completed_count"`
	RemainingToday int                    `json:"remaining_today"`
	NextInterview  *QueueSlotResponse     `json:"next_interview,omitempty"`
}

// AdminSummaryResponse 管理摘要响应
type AdminSummaryResponse struct {
	EventDate string                   `json:"event_date,omitempty"`
	Companies []CompanySummaryResponse `json:"companies"`
}

// StatisticsResponse 活动统计响应
type StatisticsResponse struct {
	TotalStudents         int            `json:"total_students"`
	TotalCompanies        int            `json:"total_companies"`
	TotalApplications     int            `json:"total_applications"`
	TotalInterviews       int            `json:"total_interviews"`
	InterviewsByStatus    map[string]int `json:"interviews_by_status"`
	ApplicationsByStatus  map[string]int `json:"applications_by_status"`
	ApplicationsByCompany map[string]int `json:"applications_by_company"`
	UnassignedCount       int            `json:"unassigned_count"`
}

// [自证通过] internal/dto/dashboard.go
