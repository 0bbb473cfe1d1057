package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/service"
	pkgerrors "careerfair/backend/pkg/errors"
	"careerfair/backend/pkg/response"
)

// CompanyHandler 公司配置模块 HTTP 处理器
type CompanyHandler struct {
	companySvc service.CompanyService
}

// NewCompanyHandler 创建 CompanyHandler
func NewCompanyHandler(companySvc service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companySvc: companySvc}
}

// ListCompanies 获取公司列表
// GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var req dto.CompanyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	companies, total, err := h.companySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, companies, total, req.GetPage(), req.GetPageSize())
}

// GetCompany 获取公司详情（含岗位与面板）
// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公司ID不能为空")
		return
	}

	company, err := h.companySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// UpdateCompanySettings 更新公司开放时间与休息时段
// PUT /api/v1/companies/:id/settings
func (h *CompanyHandler) UpdateCompanySettings(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公司ID不能为空")
		return
	}

	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	company, err := h.companySvc.UpdateSettings(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// ReplacePanels 整体替换公司面板配置
// PUT /api/v1/companies/:id/panels
func (h *CompanyHandler) ReplacePanels(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公司ID不能为空")
		return
	}

	var req dto.ReplacePanelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	company, err := h.companySvc.ReplacePanels(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// SetCompanyWalkIn 切换公司级 walk-in 开放状态
// PUT /api/v1/companies/:id/walk-in
func (h *CompanyHandler) SetCompanyWalkIn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公司ID不能为空")
		return
	}

	var req dto.WalkInToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	company, err := h.companySvc.SetCompanyWalkIn(c.Request.Context(), id, req.Open, callerID)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// SetPanelWalkIn 切换单个面板的 walk-in 开放状态
// PUT /api/v1/companies/:id/panels/:panelID/walk-in
func (h *CompanyHandler) SetPanelWalkIn(c *gin.Context) {
	id := c.Param("id")
	panelID := c.Param("panelID")
	if id == "" || panelID == "" {
		response.BadRequest(c, 10001, "公司ID与面板ID不能为空")
		return
	}

	var req dto.WalkInToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	panel, err := h.companySvc.SetPanelWalkIn(c.Request.Context(), id, panelID, req.Open, callerID)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, panel)
}

// GetCompanyDefaults 获取新公司默认配置模板
// GET /api/v1/company-defaults
func (h *CompanyHandler) GetCompanyDefaults(c *gin.Context) {
	defaults, err := h.companySvc.GetDefaults(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, defaults)
}

// SaveCompanyDefaults 保存新公司默认配置模板
// PUT /api/v1/company-defaults
func (h *CompanyHandler) SaveCompanyDefaults(c *gin.Context) {
	var req dto.SaveCompanyDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	defaults, err := h.companySvc.SaveDefaults(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, defaults)
}

// handleCompanyError 统一处理公司模块业务错误
func (h *CompanyHandler) handleCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		response.NotFound(c, 13001, "公司不存在")
	case errors.Is(err, service.ErrPanelNotFound):
		response.NotFound(c, 13002, "面板不存在")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 13003, "开放时间窗口无效")
	case errors.Is(err, service.ErrInvalidBreakWindow):
		response.BadRequest(c, 13004, "休息时段无效")
	case errors.Is(err, service.ErrUnknownJobRole):
		response.BadRequest(c, 13005, "面板引用了不存在的岗位")
	case errors.Is(err, service.ErrDuplicatePanelID):
		response.BadRequest(c, 13006, "面板 ID 重复")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13007, "数据已被其他操作更新，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/company_handler.go
