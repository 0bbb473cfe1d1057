package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"careerfair/backend/internal/dto"
	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
	"careerfair/backend/internal/scheduler"
)

// DashboardService 活动日看板业务接口：实时队列、管理摘要与统计
type DashboardService interface {
	LiveQueue(ctx context.Context) (*dto.LiveQueueResponse, error)
	AdminSummary(ctx context.Context) (*dto.AdminSummaryResponse, error)
	Statistics(ctx context.Context) (*dto.StatisticsResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

// ────────────────────── LiveQueue ──────────────────────

func (s *dashboardService) LiveQueue(ctx context.Context) (*dto.LiveQueueResponse, error) {
	companies, interviews, _, err := s.loadBoard(ctx)
	if err != nil {
		return nil, err
	}
	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	byCompany := groupByCompany(interviews)

	out := make([]dto.CompanyQueueResponse, 0, len(companies))
	for i := range companies {
		co := &companies[i]
		out = append(out, dto.CompanyQueueResponse{
			CompanyID:  co.CompanyID,
			Name:       co.Name,
			WalkInOpen: co.WalkInOpen,
			Panels:     buildCompanyQueues(co, byCompany[co.CompanyID], names, now),
		})
	}

	return &dto.LiveQueueResponse{
		RefreshedAt: now.Format(time.RFC3339),
		Companies:   out,
	}, nil
}

// ────────────────────── AdminSummary ──────────────────────

func (s *dashboardService) AdminSummary(ctx context.Context) (*dto.AdminSummaryResponse, error) {
	companies, interviews, _, err := s.loadBoard(ctx)
	if err != nil {
		return nil, err
	}
	names, err := loadStudentNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	resp := &dto.AdminSummaryResponse{}
	if settings, err := s.repo.EventSettings.Get(ctx); err == nil && settings.EventDate != nil {
		resp.EventDate = settings.EventDate.Format("2006-01-02")
	}

	now := time.Now()
	byCompany := groupByCompany(interviews)

	resp.Companies = make([]dto.CompanySummaryResponse, 0, len(companies))
	for i := range companies {
		resp.Companies = append(resp.Companies, buildCompanySummary(&companies[i], byCompany[companies[i].CompanyID], names, now))
	}
	return resp, nil
}

// ────────────────────── Statistics ──────────────────────

func (s *dashboardService) Statistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	companies, interviews, run, err := s.loadBoard(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Student.ListAll(ctx)
	if err != nil {
		s.logger.Error("装载学生统计失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.StatisticsResponse{
		TotalStudents:         len(students),
		TotalCompanies:        len(companies),
		TotalInterviews:       len(interviews),
		InterviewsByStatus:    make(map[string]int),
		ApplicationsByStatus:  make(map[string]int),
		ApplicationsByCompany: make(map[string]int),
	}

	for i := range interviews {
		resp.InterviewsByStatus[interviews[i].Status]++
	}
	for i := range students {
		for j := range students[i].Applications {
			app := &students[i].Applications[j]
			resp.TotalApplications++
			resp.ApplicationsByStatus[app.Status]++
			resp.ApplicationsByCompany[app.CompanyID]++
		}
	}
	if run != nil {
		resp.UnassignedCount = run.UnassignedCount
	}

	return resp, nil
}

// ────────────────────── 数据装载 ──────────────────────

// loadBoard 装载看板共用数据。没有活动批次不算错误，面试列表为空
func (s *dashboardService) loadBoard(ctx context.Context) ([]model.Company, []model.Interview, *model.ScheduleRun, error) {
	companies, err := s.repo.Company.ListAll(ctx)
	if err != nil {
		s.logger.Error("装载公司列表失败", zap.Error(err))
		return nil, nil, nil, err
	}

	run, err := s.repo.ScheduleRun.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return companies, nil, nil, nil
		}
		s.logger.Error("查询活动批次失败", zap.Error(err))
		return nil, nil, nil, err
	}

	interviews, err := s.repo.Interview.ListByRun(ctx, run.RunID)
	if err != nil {
		s.logger.Error("加载批次面试失败", zap.String("run_id", run.RunID), zap.Error(err))
		return nil, nil, nil, err
	}
	return companies, interviews, run, nil
}

func groupByCompany(interviews []model.Interview) map[string][]model.Interview {
	out := make(map[string][]model.Interview)
	for i := range interviews {
		out[interviews[i].CompanyID] = append(out[interviews[i].CompanyID], interviews[i])
	}
	return out
}

// ────────────────────── 队列构建 ──────────────────────

// buildCompanyQueues 为公司的每个有效面板构建队列视图。
// 出现在面试记录里但已不在配置中的面板 ID 也保留展示，避免改配置后看板丢数据
func buildCompanyQueues(co *model.Company, interviews []model.Interview, names map[string]string, now time.Time) []dto.PanelQueueResponse {
	labels := make(map[string]string, len(co.Panels))
	var order []string
	for i := range co.Panels {
		labels[co.Panels[i].PanelID] = co.Panels[i].Label
		order = append(order, co.Panels[i].PanelID)
	}
	if len(order) == 0 {
		defaultID := co.CompanyID + scheduler.DefaultPanelSuffix
		labels[defaultID] = scheduler.DefaultPanelLabel
		order = append(order, defaultID)
	}

	byPanel := make(map[string][]model.Interview)
	for i := range interviews {
		byPanel[interviews[i].PanelID] = append(byPanel[interviews[i].PanelID], interviews[i])
	}
	var ghosts []string
	for pid := range byPanel {
		if _, ok := labels[pid]; !ok {
			labels[pid] = pid
			ghosts = append(ghosts, pid)
		}
	}
	sort.Strings(ghosts)
	order = append(order, ghosts...)

	out := make([]dto.PanelQueueResponse, 0, len(order))
	for _, pid := range order {
		q := buildPanelQueue(byPanel[pid], names, now)
		q.PanelID = pid
		q.Label = labels[pid]
		out = append(out, q)
	}
	return out
}

// buildPanelQueue 从按开始时间排序的面板面试中选出上一条/当前/接下来两条。
// in_progress 无条件视作当前；否则看触发时刻是否落在面试时段内
func buildPanelQueue(interviews []model.Interview, names map[string]string, now time.Time) dto.PanelQueueResponse {
	q := dto.PanelQueueResponse{Next: []dto.QueueSlotResponse{}}

	var past []*model.Interview
	currentInProgress := false

	for i := range interviews {
		iv := &interviews[i]
		switch {
		case iv.Status == scheduler.StatusCancelled:
			continue
		case iv.Status == scheduler.StatusInProgress:
			slot := toQueueSlot(iv, names)
			q.Current = &slot
			currentInProgress = true
		case !iv.StartTime.After(now) && now.Before(iv.EndTime):
			if !currentInProgress {
				slot := toQueueSlot(iv, names)
				q.Current = &slot
			}
		case iv.StartTime.After(now):
			if len(q.Next) < 2 {
				q.Next = append(q.Next, toQueueSlot(iv, names))
			}
		default:
			past = append(past, iv)
		}
	}

	if len(past) > 0 {
		sort.SliceStable(past, func(i, j int) bool { return past[i].EndTime.Before(past[j].EndTime) })
		slot := toQueueSlot(past[len(past)-1], names)
		q.Previous = &slot
	}
	return q
}

// ────────────────────── 摘要构建 ──────────────────────

func buildCompanySummary(co *model.Company, interviews []model.Interview, names map[string]string, now time.Time) dto.CompanySummaryResponse {
	positions := make([]string, 0, len(co.JobRoles))
	for _, r := range co.JobRoles {
		positions = append(positions, r.Title)
	}

	panels := make([]dto.PanelSummaryResponse, 0, len(co.Panels))
	for i := range co.Panels {
		panels = append(panels, dto.PanelSummaryResponse{
			PanelID:    co.Panels[i].PanelID,
			Label:      co.Panels[i].Label,
			WalkInOpen: co.Panels[i].WalkInOpen,
		})
	}
	if len(panels) == 0 {
		panels = append(panels, dto.PanelSummaryResponse{
			PanelID:    co.CompanyID + scheduler.DefaultPanelSuffix,
			Label:      scheduler.DefaultPanelLabel,
			WalkInOpen: co.WalkInOpen,
		})
	}

	summary := dto.CompanySummaryResponse{
		CompanyID:  co.CompanyID,
		Name:       co.Name,
		WalkInOpen: co.WalkInOpen,
		Positions:  positions,
		Panels:     panels,
	}

	var lastEnd time.Time
	for i := range interviews {
		iv := &interviews[i]
		if iv.Status == scheduler.StatusCancelled {
			continue
		}
		summary.TotalCount++
		if iv.Status == scheduler.StatusCompleted {
			summary.CompletedCount++
		}
		if iv.StartTime.After(now) {
			summary.RemainingToday++
			if summary.NextInterview == nil {
				slot := toQueueSlot(iv, names)
				summary.NextInterview = &slot
			}
		}
		if summary.FirstScheduled == nil {
			t := iv.StartTime.Format("15:04")
			summary.FirstScheduled = &t
		}
		if iv.EndTime.After(lastEnd) {
			lastEnd = iv.EndTime
		}
	}
	if !lastEnd.IsZero() {
		t := lastEnd.Format("15:04")
		summary.LastScheduled = &t
	}

	return summary
}

func toQueueSlot(iv *model.Interview, names map[string]string) dto.QueueSlotResponse {
	return dto.QueueSlotResponse{
		InterviewID: iv.InterviewID,
		StudentID:   iv.StudentID,
		StudentName: names[iv.StudentID],
		JobRoleID:   iv.JobRoleID,
		StartTime:   iv.StartTime.Format("15:04"),
		EndTime:     iv.EndTime.Format("15:04"),
		Status:      iv.Status,
	}
}

// [自证通过] internal/service/dashboard_service.go
