package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"careerfair/backend/config"
	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/internal/scheduler"
)

// ── 排程模块业务错误 ──

var (
	ErrRunNotFound     = errors.New("排程批次不存在")
	ErrNoActiveRun     = errors.New("当前没有活动排程批次")
	ErrSolveInProgress = errors.New("排程求解进行中，请稍后重试")
	ErrEventDateUnset  = errors.New("活动日期未设置，请先配置活动信息")
)

// ScheduleService 排程业务接口。
// 引擎本身是纯函数，这里负责快照装载、求解互斥与结果落库
type ScheduleService interface {
	RunSchedule(ctx context.Context, callerID string) (*dto.SolveResponse, error)
	Reschedule(ctx context.Context, req *dto.RescheduleRequest, callerID string) (*dto.SolveResponse, error)
	GetActiveRun(ctx context.Context) (*dto.RunDetailResponse, error)
	GetRun(ctx context.Context, runID string) (*dto.RunDetailResponse, error)
	ListRuns(ctx context.Context, req *dto.RunListRequest) ([]dto.ScheduleRunResponse, int64, error)
	ClearSchedule(ctx context.Context, callerID string) error
}

type scheduleService struct {
	repo   *repository.Repository
	engine *scheduler.Engine
	logger *zap.Logger

	// 同一时刻至多一次求解在途，后来者直接拒绝而不是排队
	solveMu sync.Mutex
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ScheduleService {
	engine := scheduler.New(scheduler.Options{MaxSolverNodes: cfg.Scheduler.SolverMaxNodes}, logger)
	return &scheduleService{repo: repo, engine: engine, logger: logger}
}

// ────────────────────── RunSchedule ──────────────────────

func (s *scheduleService) RunSchedule(ctx context.Context, callerID string) (*dto.SolveResponse, error) {
	if !s.solveMu.TryLock() {
		return nil, ErrSolveInProgress
	}
	defer s.solveMu.Unlock()

	snap, names, err := s.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Solve(snap)
	if err != nil {
		return nil, err
	}

	run := &model.ScheduleRun{
		EventDate:       snap.EventDate,
		Status:          "active",
		Objective:       result.Objective,
		Optimal:         result.Optimal,
		ScheduledCount:  len(result.Interviews),
		UnassignedCount: len(result.Unassigned),
	}
	run.CreatedBy = &callerID
	run.UpdatedBy = &callerID

	rows := toInterviewRows(result.Interviews, callerID)
	if err := s.repo.ScheduleRun.CreateWithInterviews(ctx, run, rows); err != nil {
		s.logger.Error("排程结果落库失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("全量排程完成",
		zap.String("run_id", run.RunID),
		zap.Int("scheduled", run.ScheduledCount),
		zap.Int("unassigned", run.UnassignedCount),
		zap.Int("objective", run.Objective),
		zap.Bool("optimal", run.Optimal),
	)

	return s.toSolveResponse(run, result, names), nil
}

// ────────────────────── Reschedule ──────────────────────

func (s *scheduleService) Reschedule(ctx context.Context, req *dto.RescheduleRequest, callerID string) (*dto.SolveResponse, error) {
	if !s.solveMu.TryLock() {
		return nil, ErrSolveInProgress
	}
	defer s.solveMu.Unlock()

	run, err := s.repo.ScheduleRun.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRun
		}
		s.logger.Error("查询活动批次失败", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.Interview.ListByRun(ctx, run.RunID)
	if err != nil {
		s.logger.Error("加载批次面试失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, err
	}

	snap, names, err := s.buildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	in := &scheduler.RollingInput{
		Now:        now,
		Existing:   toEngineInterviews(existing),
		ReleaseIDs: req.ReleaseIDs,
	}

	result, err := s.engine.Reschedule(snap, in)
	if err != nil {
		return nil, err
	}

	// 新记录的编号续接现存最大编号，绝不复用，
	// 因此不在结果中的非取消旧记录就是被重排掉的
	resultIDs := make(map[string]bool, len(result.Interviews))
	for i := range result.Interviews {
		resultIDs[result.Interviews[i].InterviewID] = true
	}
	existingIDs := make(map[string]bool, len(existing))
	var removeIDs []string
	for i := range existing {
		existingIDs[existing[i].InterviewID] = true
		if existing[i].Status != scheduler.StatusCancelled && !resultIDs[existing[i].InterviewID] {
			removeIDs = append(removeIDs, existing[i].InterviewID)
		}
	}
	var created []scheduler.Interview
	for i := range result.Interviews {
		if !existingIDs[result.Interviews[i].InterviewID] {
			created = append(created, result.Interviews[i])
		}
	}

	rows := toInterviewRows(created, callerID)
	for i := range rows {
		rows[i].RunID = run.RunID
	}
	if err := s.repo.Interview.ReplaceForRun(ctx, run.RunID, removeIDs, rows); err != nil {
		s.logger.Error("滚动重排落库失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, err
	}

	run.Objective = result.Objective
	run.Optimal = result.Optimal
	run.ScheduledCount = len(result.Interviews)
	run.UnassignedCount = len(result.Unassigned)
	run.ResolvedAt = &now
	run.UpdatedBy = &callerID
	if err := s.repo.ScheduleRun.Update(ctx, run); err != nil {
		s.logger.Error("更新批次统计失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("滚动重排完成",
		zap.String("run_id", run.RunID),
		zap.Int("frozen_kept", result.Stats.FrozenKept),
		zap.Int("rescheduled", len(removeIDs)),
		zap.Int("created", len(created)),
		zap.Int("unassigned", len(result.Unassigned)),
	)

	return s.toSolveResponse(run, result, names), nil
}

// ────────────────────── GetActiveRun ──────────────────────

func (s *scheduleService) GetActiveRun(ctx context.Context) (*dto.RunDetailResponse, error) {
	run, err := s.repo.ScheduleRun.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRun
		}
		s.logger.Error("查询活动批次失败", zap.Error(err))
		return nil, err
	}
	return s.toRunDetail(ctx, run)
}

// ────────────────────── GetRun ──────────────────────

func (s *scheduleService) GetRun(ctx context.Context, runID string) (*dto.RunDetailResponse, error) {
	run, err := s.repo.ScheduleRun.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		s.logger.Error("查询批次失败", zap.String("run_id", runID), zap.Error(err))
		return nil, err
	}
	return s.toRunDetail(ctx, run)
}

// ────────────────────── ListRuns ──────────────────────

func (s *scheduleService) ListRuns(ctx context.Context, req *dto.RunListRequest) ([]dto.ScheduleRunResponse, int64, error) {
	runs, total, err := s.repo.ScheduleRun.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出批次失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ScheduleRunResponse, 0, len(runs))
	for i := range runs {
		result = append(result, toRunResponse(&runs[i]))
	}
	return result, total, nil
}

// ────────────────────── ClearSchedule ──────────────────────

func (s *scheduleService) ClearSchedule(ctx context.Context, callerID string) error {
	if _, err := s.repo.ScheduleRun.GetActive(ctx); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveRun
		}
		s.logger.Error("查询活动批次失败", zap.Error(err))
		return err
	}

	if err := s.repo.ScheduleRun.ArchiveActive(ctx, callerID); err != nil {
		s.logger.Error("归档活动批次失败", zap.Error(err))
		return err
	}

	s.logger.Info("活动批次已归档", zap.String("archived_by", callerID))
	return nil
}

// ────────────────────── 快照装载 ──────────────────────

// buildSnapshot 从数据库装载排程输入快照。
// 被拒绝的申请不参加排程，其余申请的 shortlisted 标记由状态推导
func (s *scheduleService) buildSnapshot(ctx context.Context) (*scheduler.Snapshot, map[string]string, error) {
	settings, err := s.repo.EventSettings.Get(ctx)
	if err != nil {
		s.logger.Error("读取活动配置失败", zap.Error(err))
		return nil, nil, ErrSettingsNotFound
	}
	if settings.EventDate == nil {
		return nil, nil, ErrEventDateUnset
	}

	companies, err := s.repo.Company.ListAll(ctx)
	if err != nil {
		s.logger.Error("装载公司快照失败", zap.Error(err))
		return nil, nil, err
	}
	students, err := s.repo.Student.ListAll(ctx)
	if err != nil {
		s.logger.Error("装载学生快照失败", zap.Error(err))
		return nil, nil, err
	}

	// date 列无时区语义，按当地时区折算活动日零点
	y, m, d := settings.EventDate.Date()
	dayBase := time.Date(y, m, d, 0, 0, 0, 0, time.Local)

	snap := &scheduler.Snapshot{
		EventDate:   dayBase,
		BaseMinutes: settings.BaseDurationMinutes,
		Companies:   make([]scheduler.Company, 0, len(companies)),
		Students:    make([]scheduler.Student, 0, len(students)),
	}
	names := make(map[string]string, len(students))

	for i := range companies {
		snap.Companies = append(snap.Companies, toEngineCompany(&companies[i]))
	}
	for i := range students {
		st := &students[i]
		names[st.StudentID] = st.Name

		apps := make([]scheduler.Application, 0, len(st.Applications))
		for j := range st.Applications {
			app := &st.Applications[j]
			if app.Status == "rejected" {
				continue
			}
			priority := 0
			if app.Priority != nil {
				priority = *app.Priority
			}
			apps = append(apps, scheduler.Application{
				StudentID:   app.StudentID,
				CompanyID:   app.CompanyID,
				JobRoleID:   app.JobRoleID,
				Shortlisted: app.Status == "shortlisted",
				Priority:    priority,
			})
		}
		snap.Students = append(snap.Students, scheduler.Student{
			StudentID:    st.StudentID,
			Name:         st.Name,
			Applications: apps,
		})
	}

	return snap, names, nil
}

// ────────────────────── 模型转换 ──────────────────────

func toEngineCompany(co *model.Company) scheduler.Company {
	roles := make([]scheduler.JobRole, 0, len(co.JobRoles))
	for _, r := range co.JobRoles {
		roles = append(roles, scheduler.JobRole{
			JobRoleID:       r.JobRoleID,
			Title:           r.Title,
			DurationMinutes: r.DurationMinutes,
		})
	}

	panels := make([]scheduler.Panel, 0, len(co.Panels))
	for i := range co.Panels {
		p := &co.Panels[i]
		panels = append(panels, scheduler.Panel{
			PanelID:             p.PanelID,
			Label:               p.Label,
			JobRoleIDs:          []string(p.JobRoleIDs),
			SlotDurationMinutes: p.SlotDurationMinutes,
			ReservedWalkinSlots: p.ReservedWalkinSlots,
			Breaks:              toEngineBreaks(p.Breaks),
			WalkInOpen:          p.WalkInOpen,
		})
	}

	return scheduler.Company{
		CompanyID:         co.CompanyID,
		Name:              co.Name,
		AvailabilityStart: co.AvailabilityStart,
		AvailabilityEnd:   co.AvailabilityEnd,
		Breaks:            toEngineBreaks(co.Breaks),
		JobRoles:          roles,
		Panels:            panels,
	}
}

func toEngineBreaks(breaks model.BreakList) []scheduler.BreakWindow {
	out := make([]scheduler.BreakWindow, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, scheduler.BreakWindow{Start: b.Start, End: b.End})
	}
	return out
}

func toEngineInterviews(rows []model.Interview) []scheduler.Interview {
	out := make([]scheduler.Interview, 0, len(rows))
	for i := range rows {
		iv := &rows[i]
		out = append(out, scheduler.Interview{
			InterviewID: iv.InterviewID,
			StudentID:   iv.StudentID,
			CompanyID:   iv.CompanyID,
			JobRoleID:   iv.JobRoleID,
			PanelID:     iv.PanelID,
			StartTime:   iv.StartTime,
			EndTime:     iv.EndTime,
			Status:      iv.Status,
		})
	}
	return out
}

func toInterviewRows(interviews []scheduler.Interview, callerID string) []model.Interview {
	rows := make([]model.Interview, 0, len(interviews))
	for i := range interviews {
		iv := &interviews[i]
		row := model.Interview{
			InterviewID: iv.InterviewID,
			StudentID:   iv.StudentID,
			CompanyID:   iv.CompanyID,
			JobRoleID:   iv.JobRoleID,
			PanelID:     iv.PanelID,
			StartTime:   iv.StartTime,
			EndTime:     iv.EndTime,
			Status:      iv.Status,
		}
		row.CreatedBy = &callerID
		row.UpdatedBy = &callerID
		rows = append(rows, row)
	}
	return rows
}

// ────────────────────── 响应映射 ──────────────────────

func toRunResponse(run *model.ScheduleRun) dto.ScheduleRunResponse {
	resp := dto.ScheduleRunResponse{
		RunID:           run.RunID,
		EventDate:       run.EventDate.Format("2006-01-02"),
		Status:          run.Status,
		Objective:       run.Objective,
		Optimal:         run.Optimal,
		ScheduledCount:  run.ScheduledCount,
		UnassignedCount: run.UnassignedCount,
		CreatedAt:       run.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if run.ResolvedAt != nil {
		t := run.ResolvedAt.Format("2006-01-02T15:04:05Z")
		resp.ResolvedAt = &t
	}
	return resp
}

func (s *scheduleService) toSolveResponse(run *model.ScheduleRun, result *scheduler.Result, names map[string]string) *dto.SolveResponse {
	interviews := make([]dto.InterviewResponse, 0, len(result.Interviews))
	for i := range result.Interviews {
		iv := &result.Interviews[i]
		interviews = append(interviews, dto.InterviewResponse{
			InterviewID: iv.InterviewID,
			StudentID:   iv.StudentID,
			StudentName: names[iv.StudentID],
			CompanyID:   iv.CompanyID,
			JobRoleID:   iv.JobRoleID,
			PanelID:     iv.PanelID,
			StartTime:   iv.StartTime.Format(time.RFC3339),
			EndTime:     iv.EndTime.Format(time.RFC3339),
			Status:      iv.Status,
		})
	}

	unassigned := make([]dto.UnassignedResponse, 0, len(result.Unassigned))
	for _, u := range result.Unassigned {
		unassigned = append(unassigned, dto.UnassignedResponse{
			StudentID: u.StudentID,
			CompanyID: u.CompanyID,
			JobRoleID: u.JobRoleID,
			Reason:    u.Reason,
		})
	}

	return &dto.SolveResponse{
		Run:        toRunResponse(run),
		Interviews: interviews,
		Unassigned: unassigned,
		Stats: dto.SolveStatsResponse{
			Applications:  result.Stats.Applications,
			Candidates:    result.Stats.Candidates,
			NodesExplored: result.Stats.NodesExplored,
			FrozenKept:    result.Stats.FrozenKept,
		},
	}
}

func (s *scheduleService) toRunDetail(ctx context.Context, run *model.ScheduleRun) (*dto.RunDetailResponse, error) {
	rows, err := s.repo.Interview.ListByRun(ctx, run.RunID)
	if err != nil {
		s.logger.Error("加载批次面试失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, err
	}

	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	interviews := make([]dto.InterviewResponse, 0, len(rows))
	for i := range rows {
		interviews = append(interviews, toInterviewResponse(&rows[i], names))
	}

	return &dto.RunDetailResponse{
		Run:        toRunResponse(run),
		Interviews: interviews,
	}, nil
}

// [自证通过] internal/service/schedule_service.go
