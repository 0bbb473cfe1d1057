package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/internal/scheduler"
)

// ── 面试模块业务错误 ──

var (
	ErrInterviewNotFound = errors.New("面试不存在")
	ErrIllegalTransition = errors.New("非法的面试状态流转")
)

// legalTransitions 面试状态机：scheduled → in_progress → completed，
// 进行前与进行中均可取消，终态不可再变
var legalTransitions = map[string][]string{
	scheduler.StatusScheduled:  {scheduler.StatusInProgress, scheduler.StatusCancelled},
	scheduler.StatusInProgress: {scheduler.StatusCompleted, scheduler.StatusCancelled},
}

// InterviewService 面试状态跟踪业务接口，作用于当前活动批次
type InterviewService interface {
	List(ctx context.Context, req *dto.InterviewListRequest) ([]dto.InterviewResponse, int64, error)
	GetByID(ctx context.Context, interviewID string) (*dto.InterviewResponse, error)
	UpdateStatus(ctx context.Context, interviewID string, req *dto.UpdateInterviewStatusRequest, callerID string) (*dto.InterviewResponse, error)
}

type interviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInterviewService 创建 InterviewService 实例
func NewInterviewService(repo *repository.Repository, logger *zap.Logger) InterviewService {
	return &interviewService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *interviewService) List(ctx context.Context, req *dto.InterviewListRequest) ([]dto.InterviewResponse, int64, error) {
	run, err := s.activeRun(ctx)
	if err != nil {
		return nil, 0, err
	}

	interviews, total, err := s.repo.Interview.ListFiltered(ctx,
		run.RunID, req.CompanyID, req.PanelID, req.StudentID, req.Status,
		req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出面试失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, 0, err
	}

	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		result = append(result, toInterviewResponse(&interviews[i], names))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *interviewService) GetByID(ctx context.Context, interviewID string) (*dto.InterviewResponse, error) {
	run, err := s.activeRun(ctx)
	if err != nil {
		return nil, err
	}

	interview, err := s.loadInterview(ctx, run.RunID, interviewID)
	if err != nil {
		return nil, err
	}

	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	resp := toInterviewResponse(interview, names)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *interviewService) UpdateStatus(ctx context.Context, interviewID string, req *dto.UpdateInterviewStatusRequest, callerID string) (*dto.InterviewResponse, error) {
	run, err := s.activeRun(ctx)
	if err != nil {
		return nil, err
	}

	interview, err := s.loadInterview(ctx, run.RunID, interviewID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(interview.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s → %s", ErrIllegalTransition, interview.Status, req.Status)
	}

	interview.Status = req.Status
	interview.UpdatedBy = &callerID
	if err := s.repo.Interview.Update(ctx, interview); err != nil {
		s.logger.Error("更新面试状态失败",
			zap.String("interview_id", interviewID),
			zap.String("status", req.Status),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("面试状态已更新",
		zap.String("interview_id", interviewID),
		zap.String("status", req.Status),
	)

	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	resp := toInterviewResponse(interview, names)
	return &resp, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *interviewService) activeRun(ctx context.Context) (*model.ScheduleRun, error) {
	run, err := s.repo.ScheduleRun.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRun
		}
		s.logger.Error("查询活动批次失败", zap.Error(err))
		return nil, err
	}
	return run, nil
}

func (s *interviewService) loadInterview(ctx context.Context, runID, interviewID string) (*model.Interview, error) {
	interview, err := s.repo.Interview.Get(ctx, runID, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		s.logger.Error("查询面试失败", zap.String("interview_id", interviewID), zap.Error(err))
		return nil, err
	}
	return interview, nil
}

func transitionAllowed(from, to string) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// loadStudentNames 构建学号 → 姓名映射，面试响应补全用
func loadStudentNames(ctx context.Context, repo *repository.Repository) (map[string]string, error) {
	students, err := repo.Student.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(students))
	for i := range students {
		names[students[i].StudentID] = students[i].Name
	}
	return names, nil
}

func toInterviewResponse(iv *model.Interview, names map[string]string) dto.InterviewResponse {
	return dto.InterviewResponse{
		InterviewID: iv.InterviewID,
		StudentID:   iv.StudentID,
		StudentName: names[iv.StudentID],
		CompanyID:   iv.CompanyID,
		JobRoleID:   iv.JobRoleID,
		PanelID:     iv.PanelID,
		StartTime:   iv.StartTime.Format(time.RFC3339),
		EndTime:     iv.EndTime.Format(time.RFC3339),
		Status:      iv.Status,
	}
}

// [自证通过] internal/service/interview_service.go
