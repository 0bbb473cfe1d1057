package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"careerfair/backend/internal/model"
	"careerfair/backend/internal/repository"
)

// ── 测试辅助 ──

type testDashboardRepos struct {
	company   *mockCompanyRepo
	panel     *mockPanelRepo
	student   *mockStudentRepo
	run       *mockScheduleRunRepo
	interview *mockInterviewRepo
	settings  *mockEventSettingsRepo
}

func setupTestDashboardService() (DashboardService, *testDashboardRepos) {
	panelRepo := newMockPanelRepo()
	companyRepo := newMockCompanyRepo(panelRepo)
	studentRepo := newMockStudentRepo()
	interviewRepo := newMockInterviewRepo()
	runRepo := newMockScheduleRunRepo(interviewRepo)
	settingsRepo := newMockEventSettingsRepo()

	repos := &testDashboardRepos{
		company:   companyRepo,
		panel:     panelRepo,
		student:   studentRepo,
		run:       runRepo,
		interview: interviewRepo,
		settings:  settingsRepo,
	}
	repo := &repository.Repository{
		Company:       companyRepo,
		Panel:         panelRepo,
		Student:       studentRepo,
		ScheduleRun:   runRepo,
		Interview:     interviewRepo,
		EventSettings: settingsRepo,
	}
	svc := NewDashboardService(repo, zap.NewNop())
	return svc, repos
}

func queueInterview(id, studentID string, start, end time.Time, status string) model.Interview {
	return model.Interview{
		RunID:       "run-1",
		InterviewID: id,
		StudentID:   studentID,
		CompanyID:   "acme",
		JobRoleID:   "acme_software_engineer",
		PanelID:     "acme-P1",
		StartTime:   start,
		EndTime:     end,
		Status:      status,
	}
}

// ── LiveQueue 测试 ──

func TestDashboardService_LiveQueue_NoActiveRun(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")

	result, err := svc.LiveQueue(context.Background())
	if err != nil {
		t.Fatalf("LiveQueue 应成功: %v", err)
	}
	if len(result.Companies) != 1 {
		t.Fatalf("期望 1 家公司，实际=%d", len(result.Companies))
	}

	// 无面板配置时合成默认面板，队列为空
	co := result.Companies[0]
	if len(co.Panels) != 1 {
		t.Fatalf("期望 1 个面板，实际=%d", len(co.Panels))
	}
	if co.Panels[0].PanelID != "acme-P1" {
		t.Errorf("期望合成面板 acme-P1，实际=%s", co.Panels[0].PanelID)
	}
	if co.Panels[0].Current != nil || co.Panels[0].Previous != nil || len(co.Panels[0].Next) != 0 {
		t.Error("空批次下队列应为空")
	}
}

func TestDashboardService_LiveQueue_Selection(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")
	seedActiveRun(repos.run, "run-1")
	_ = repos.student.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})

	now := time.Now()
	repos.interview.interviews = []model.Interview{
		queueInterview("INT-001", "E20121", now.Add(-2*time.Hour), now.Add(-90*time.Minute), "completed"),
		queueInterview("INT-002", "E20121", now.Add(-15*time.Minute), now.Add(15*time.Minute), "scheduled"),
		queueInterview("INT-003", "E20121", now.Add(30*time.Minute), now.Add(time.Hour), "cancelled"),
		queueInterview("INT-004", "E20121", now.Add(time.Hour), now.Add(90*time.Minute), "scheduled"),
		queueInterview("INT-005", "E20121", now.Add(2*time.Hour), now.Add(150*time.Minute), "scheduled"),
		queueInterview("INT-006", "E20121", now.Add(3*time.Hour), now.Add(210*time.Minute), "scheduled"),
	}

	result, err := svc.LiveQueue(context.Background())
	if err != nil {
		t.Fatalf("LiveQueue 应成功: %v", err)
	}

	q := result.Companies[0].Panels[0]
	if q.Previous == nil || q.Previous.InterviewID != "INT-001" {
		t.Errorf("期望 Previous=INT-001，实际: %+v", q.Previous)
	}
	if q.Current == nil || q.Current.InterviewID != "INT-002" {
		t.Errorf("期望 Current=INT-002，实际: %+v", q.Current)
	}
	// 已取消的 INT-003 被跳过，接下来两条为 INT-004、INT-005
	if len(q.Next) != 2 {
		t.Fatalf("期望 Next 2 条，实际=%d", len(q.Next))
	}
	if q.Next[0].InterviewID != "INT-004" || q.Next[1].InterviewID != "INT-005" {
		t.Errorf("期望 Next=INT-004,INT-005，实际=%s,%s", q.Next[0].InterviewID, q.Next[1].InterviewID)
	}
	if q.Current.StudentName != "Kasun Perera" {
		t.Errorf("期望补全学生姓名，实际=%s", q.Current.StudentName)
	}
}

func TestDashboardService_LiveQueue_InProgressWins(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")
	seedActiveRun(repos.run, "run-1")

	// 超时未结束的 in_progress 面试优先于时间窗口命中的面试
	now := time.Now()
	repos.interview.interviews = []model.Interview{
		queueInterview("INT-001", "E20121", now.Add(-time.Hour), now.Add(-30*time.Minute), "in_progress"),
		queueInterview("INT-002", "E20250", now.Add(-10*time.Minute), now.Add(20*time.Minute), "scheduled"),
	}

	result, err := svc.LiveQueue(context.Background())
	if err != nil {
		t.Fatalf("LiveQueue 应成功: %v", err)
	}
	q := result.Companies[0].Panels[0]
	if q.Current == nil || q.Current.InterviewID != "INT-001" {
		t.Errorf("期望 in_progress 面试为当前，实际: %+v", q.Current)
	}
}

func TestDashboardService_LiveQueue_GhostPanelKept(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")
	seedActiveRun(repos.run, "run-1")

	// 面试记录引用的面板已不在配置中，仍应出现在队列里
	now := time.Now()
	iv := queueInterview("INT-001", "E20121", now.Add(time.Hour), now.Add(90*time.Minute), "scheduled")
	iv.PanelID = "acme-OLD"
	repos.interview.interviews = []model.Interview{iv}

	result, err := svc.LiveQueue(context.Background())
	if err != nil {
		t.Fatalf("LiveQueue 应成功: %v", err)
	}
	panels := result.Companies[0].Panels
	if len(panels) != 2 {
		t.Fatalf("期望合成面板加幽灵面板共 2 个，实际=%d", len(panels))
	}
	if panels[1].PanelID != "acme-OLD" {
		t.Errorf("期望幽灵面板 acme-OLD 在末尾，实际=%s", panels[1].PanelID)
	}
	if len(panels[1].Next) != 1 {
		t.Errorf("幽灵面板应保留其面试，实际 Next=%d", len(panels[1].Next))
	}
}

// ── AdminSummary 测试 ──

func TestDashboardService_AdminSummary(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")
	seedActiveRun(repos.run, "run-1")
	eventDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	repos.settings.settings = &model.EventSettings{Singleton: true, EventDate: &eventDate, DayStart: "09:00", DayEnd: "17:00", BaseDurationMinutes: 30}
	_ = repos.student.Create(context.Background(), &model.Student{StudentID: "E20121", Name: "Kasun Perera"})

	now := time.Now()
	first := now.Add(-2 * time.Hour)
	last := now.Add(2 * time.Hour)
	repos.interview.interviews = []model.Interview{
		queueInterview("INT-001", "E20121", first, first.Add(30*time.Minute), "completed"),
		queueInterview("INT-002", "E20121", now.Add(time.Hour), now.Add(90*time.Minute), "scheduled"),
		queueInterview("INT-003", "E20121", last, last.Add(30*time.Minute), "scheduled"),
		queueInterview("INT-004", "E20121", now.Add(-time.Hour), now.Add(-30*time.Minute), "cancelled"),
	}

	result, err := svc.AdminSummary(context.Background())
	if err != nil {
		t.Fatalf("AdminSummary 应成功: %v", err)
	}
	if result.EventDate != "2026-09-15" {
		t.Errorf("期望 EventDate=2026-09-15，实际=%s", result.EventDate)
	}
	if len(result.Companies) != 1 {
		t.Fatalf("期望 1 家公司，实际=%d", len(result.Companies))
	}

	co := result.Companies[0]
	if co.TotalCount != 3 {
		t.Errorf("取消的面试不计入总数，期望 3，实际=%d", co.TotalCount)
	}
	if co.CompletedCount != 1 {
		t.Errorf("期望已完成 1，实际=%d", co.CompletedCount)
	}
	if co.RemainingToday != 2 {
		t.Errorf("期望剩余 2，实际=%d", co.RemainingToday)
	}
	if co.NextInterview == nil || co.NextInterview.InterviewID != "INT-002" {
		t.Errorf("期望下一场 INT-002，实际: %+v", co.NextInterview)
	}
	if co.FirstScheduled == nil || *co.FirstScheduled != first.Format("15:04") {
		t.Errorf("期望最早开始 %s，实际: %v", first.Format("15:04"), co.FirstScheduled)
	}
	if co.LastScheduled == nil || *co.LastScheduled != last.Add(30*time.Minute).Format("15:04") {
		t.Errorf("期望最晚结束 %s，实际: %v", last.Add(30*time.Minute).Format("15:04"), co.LastScheduled)
	}
	if len(co.Positions) != 2 {
		t.Errorf("期望岗位标题 2 个，实际=%d", len(co.Positions))
	}
}

// ── Statistics 测试 ──

func TestDashboardService_Statistics(t *testing.T) {
	svc, repos := setupTestDashboardService()
	seedCompany(repos.company, "acme", "Acme Corp")
	seedCompany(repos.company, "globex", "Globex")
	run := seedActiveRun(repos.run, "run-1")
	run.UnassignedCount = 3

	_ = repos.student.Create(context.Background(), &model.Student{
		StudentID: "E20121", Name: "Kasun Perera",
		Applications: []model.Application{
			{StudentID: "E20121", CompanyID: "acme", JobRoleID: "acme_software_engineer", Status: "shortlisted"},
			{StudentID: "E20121", CompanyID: "globex", JobRoleID: "globex_qa_engineer", Status: "applied"},
		},
	})
	_ = repos.student.Create(context.Background(), &model.Student{
		StudentID: "E20250", Name: "Nimali Silva",
		Applications: []model.Application{
			{StudentID: "E20250", CompanyID: "acme", JobRoleID: "acme_software_engineer", Status: "rejected"},
		},
	})

	now := time.Now()
	repos.interview.interviews = []model.Interview{
		queueInterview("INT-001", "E20121", now, now.Add(30*time.Minute), "scheduled"),
		queueInterview("INT-002", "E20121", now.Add(time.Hour), now.Add(90*time.Minute), "completed"),
	}

	result, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics 应成功: %v", err)
	}
	if result.TotalStudents != 2 || result.TotalCompanies != 2 {
		t.Errorf("期望学生 2 公司 2，实际=%d/%d", result.TotalStudents, result.TotalCompanies)
	}
	if result.TotalApplications != 3 {
		t.Errorf("期望申请 3，实际=%d", result.TotalApplications)
	}
	if result.TotalInterviews != 2 {
		t.Errorf("期望面试 2，实际=%d", result.TotalInterviews)
	}
	if result.InterviewsByStatus["scheduled"] != 1 || result.InterviewsByStatus["completed"] != 1 {
		t.Errorf("面试状态统计不符: %+v", result.InterviewsByStatus)
	}
	if result.ApplicationsByStatus["shortlisted"] != 1 || result.ApplicationsByStatus["rejected"] != 1 {
		t.Errorf("申请状态统计不符: %+v", result.ApplicationsByStatus)
	}
	if result.ApplicationsByCompany["acme"] != 2 {
		t.Errorf("期望 acme 申请 2，实际=%d", result.ApplicationsByCompany["acme"])
	}
	if result.UnassignedCount != 3 {
		t.Errorf("期望未安排 3，实际=%d", result.UnassignedCount)
	}
}

// [自证通过] internal/service/dashboard_service_test.go
