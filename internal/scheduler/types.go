package scheduler

import "time"

// 面试状态
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// BreakWindow 休息时段，半开区间 [Start, End)，格式 HH:MM
type BreakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// JobRole 招聘岗位
type JobRole struct {
	JobRoleID       string
	Title           string
	DurationMinutes int // 未配置面板时使用的默认面试时长
}

// Panel 面试面板（公司内的一条面试通道）
type Panel struct {
	PanelID             string
	Label               string
	JobRoleIDs          []string
	SlotDurationMinutes int
	ReservedWalkinSlots int // 当日尾部预留给 walk-in 的时段数
	Breaks              []BreakWindow
	WalkInOpen          bool
}

// Company 参展公司
type Company struct {
	CompanyID         string
	Name              string
	AvailabilityStart string // HH:MM
	AvailabilityEnd   string // HH:MM
	Breaks            []BreakWindow
	JobRoles          []JobRole
	Panels            []Panel
}

// Application 面试申请
type Application struct {
	StudentID   string
	CompanyID   string
	JobRoleID   string
	Shortlisted bool
	Priority    int // 1 = 最高志愿；0 表示未排序
}

// Student 学生及其全部申请
type Student struct {
	StudentID    string
	Name         string
	Applications []Application
}

// Snapshot 排程输入快照。引擎只读，不做任何修改
type Snapshot struct {
	EventDate   time.Time // 活动日零点，用于把时段折算成具体时刻
	BaseMinutes int       // 基础时段粒度（分钟）
	Companies   []Company
	Students    []Student
}

// Interview 引擎输出的面试记录
type Interview struct {
	InterviewID string    `json:"interview_id"`
	StudentID   string    `json:"student_id"`
	CompanyID   string    `json:"company_id"`
	JobRoleID   string    `json:"job_role_id"`
	PanelID     string    `json:"panel_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// UnassignedApplication 未能安排的申请及原因
type UnassignedApplication struct {
	StudentID string `json:"student_id"`
	CompanyID string `json:"company_id"`
	JobRoleID string `json:"job_role_id"`
	Reason    string `json:"reason"` // no_eligible_panel | no_feasible_slot | capacity
}

// 未安排原因
const (
	ReasonNoEligiblePanel = "no_eligible_panel" // 公司没有可受理该岗位的面板
	ReasonNoFeasibleSlot  = "no_feasible_slot"  // 有面板但无任何可行时段
	ReasonCapacity        = "capacity"          // 有可行时段但容量竞争落选
)

// SolveStats 求解统计
type SolveStats struct {
	Applications  int `json:"applications"`
	Candidates    int `json:"candidates"`
	NodesExplored int `json:"nodes_explored"`
	FrozenKept    int `json:"frozen_kept"` // 滚动重排中原样保留的冻结面试数
}

// Result 求解结果
// Optimal 为 false 表示节点预算耗尽，结果可行但未证明最优
type Result struct {
	Interviews []Interview             `json:"interviews"`
	Objective  int                     `json:"objective"`
	Optimal    bool                    `json:"optimal"`
	Unassigned []UnassignedApplication `json:"unassigned"`
	Stats      SolveStats              `json:"stats"`
}

// [自证通过] internal/scheduler/types.go
