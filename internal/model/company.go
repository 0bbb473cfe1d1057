package model

// Company 参展公司表 — 对应 companies
type Company struct {
	CompanyID         string    `gorm:"type:varchar(100);primaryKey"          json:"company_id"`
	Name              string    `gorm:"type:varchar(200);not null"            json:"name"`
	AvailabilityStart string    `gorm:"type:varchar(5);not null;default:'09:00'" json:"availability_start"` // HH:MM
	AvailabilityEnd   string    `gorm:"type:varchar(5);not null;default:'17:00'" json:"availability_end"`   // HH:MM
	Breaks            BreakList `gorm:"type:jsonb;not null;default:'[]'"      json:"breaks"`
	WalkInOpen        bool      `gorm:"not null;default:false"                json:"walk_in_open"`
	NumPanels         int       `gorm:"not null;default:0"                    json:"num_panels"` // 冗余计数，随面板保存更新
	VersionedModel

	// 关联
	JobRoles []JobRole `gorm:"foreignKey:CompanyID;references:CompanyID" json:"job_roles,omitempty"`
	Panels   []Panel   `gorm:"foreignKey:CompanyID;references:CompanyID" json:"panels,omitempty"`
}

func (Company) TableName() string { return "companies" }

// JobRole 招聘岗位表 — 对应 job_roles
type JobRole struct {
	JobRoleID       string `gorm:"type:varchar(100);primaryKey" json:"job_role_id"`
	CompanyID       string `gorm:"type:varchar(100);not null"   json:"company_id"`
	Title           string `gorm:"type:varchar(200);not null"   json:"title"`
	DurationMinutes int    `gorm:"not null;default:30"          json:"duration_minutes"`
	BaseModel
}

func (JobRole) TableName() string { return "job_roles" }

// Panel 面试面板表 — 对应 panels
// 面板 ID 在公司内唯一，与公司 ID 构成复合主键
type Panel struct {
	CompanyID           string      `gorm:"type:varchar(100);primaryKey"     json:"company_id"`
	PanelID             string      `gorm:"type:varchar(100);primaryKey"     json:"panel_id"`
	Label               string      `gorm:"type:varchar(200);not null"       json:"label"`
	JobRoleIDs          StringArray `gorm:"type:text[];not null;default:'{}'" json:"job_role_ids"`
	SlotDurationMinutes int         `gorm:"not null;default:30"              json:"slot_duration_minutes"`
	ReservedWalkinSlots int         `gorm:"not null;default:0"               json:"reserved_walkin_slots"`
	Breaks              BreakList   `gorm:"type:jsonb;not null;default:'[]'" json:"breaks"` // 空列表表示继承公司休息时段
	WalkInOpen          bool        `gorm:"not null;default:false"           json:"walk_in_open"`
	BaseModel
}

func (Panel) TableName() string { return "panels" }

// CompanyDefaults 新公司默认配置模板表 — 对应 company_defaults（单行强类型）。
// 报名表导入遇到首次出现的公司时套用；已有公司保留自己的配置
type CompanyDefaults struct {
	Singleton         bool      `gorm:"primaryKey;default:true"                  json:"-"`
	AvailabilityStart string    `gorm:"type:varchar(5);not null;default:'09:00'" json:"availability_start"`
	AvailabilityEnd   string    `gorm:"type:varchar(5);not null;default:'17:00'" json:"availability_end"`
	Breaks            BreakList `gorm:"type:jsonb;not null;default:'[]'"         json:"breaks"`

	// 为新公司创建的默认面板；CreatePanel 为 false 时不建面板，
	// 排程时由引擎按岗位自身时长合成默认面板
	CreatePanel         bool      `gorm:"not null;default:true"                  json:"create_panel"`
	PanelLabel          string    `gorm:"type:varchar(200);not null;default:'Panel 1 (Default)'" json:"panel_label"`
	SlotDurationMinutes int       `gorm:"not null;default:30"                    json:"slot_duration_minutes"`
	ReservedWalkinSlots int       `gorm:"not null;default:0"                     json:"reserved_walkin_slots"`
	PanelWalkInOpen     bool      `gorm:"not null;default:false"                 json:"panel_walk_in_open"`
	PanelBreaks         BreakList `gorm:"type:jsonb;not null;default:'[]'"       json:"panel_breaks"`
	BaseModel
}

func (CompanyDefaults) TableName() string { return "company_defaults" }

// [自证通过] internal/model/company.go
