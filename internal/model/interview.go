package model

import "time"

// ScheduleRun 排程批次表 — 对应 schedule_runs
// 每次全量求解产生一个批次；旧批次归档保留，可随时回查
type ScheduleRun struct {
	RunID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	EventDate       time.Time  `gorm:"type:date;not null"                        json:"event_date"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active | archived
	Objective       int        `gorm:"not null;default:0"                        json:"objective"`
	Optimal         bool       `gorm:"not null;default:true"                     json:"optimal"`
	ScheduledCount  int        `gorm:"not null;default:0"                        json:"scheduled_count"`
	UnassignedCount int        `gorm:"not null;default:0"                        json:"unassigned_count"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"` // 最近一次滚动重排时间
	VersionedModel

	// 关联
	Interviews []Interview `gorm:"foreignKey:RunID;references:RunID" json:"interviews,omitempty"`
}

func (ScheduleRun) TableName() string { return "schedule_runs" }

// Interview 面试记录表 — 对应 interviews
// 引擎生成的确定性编号（INT-001）在批次内唯一，与批次 ID 构成复合主键。
// 冻结的面试行在滚动重排中原样保留，绝不改写
type Interview struct {
	RunID       string    `gorm:"type:uuid;primaryKey"         json:"run_id"`
	InterviewID string    `gorm:"type:varchar(20);primaryKey"  json:"interview_id"`
	StudentID   string    `gorm:"type:varchar(20);not null"    json:"student_id"`
	CompanyID   string    `gorm:"type:varchar(100);not null"   json:"company_id"`
	JobRoleID   string    `gorm:"type:varchar(100);not null"   json:"job_role_id"`
	PanelID     string    `gorm:"type:varchar(100);not null"   json:"panel_id"`
	StartTime   time.Time `gorm:"not null"                     json:"start_time"`
	EndTime     time.Time `gorm:"not null"                     json:"end_time"`
	Status      string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"` // scheduled | in_progress | completed | cancelled
	VersionedModel
}

func (Interview) TableName() string { return "interviews" }

// [自证通过] internal/model/interview.go
